// Package jwt provides JSON Web Token utilities for the MoimLog API.
//
// The jwt package handles RS256 token signing, validation, and claims
// extraction for authentication.
//
// # Token Generation
//
// Sign tokens for authenticated users:
//
//	service, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "keys/private.pem",
//	    Issuer:         "moimlog-api",
//	    ExpirationMins: 60,
//	})
//
//	token, err := service.Sign(jwt.Claims{
//	    Subject: user.ID,
//	    UserID:  user.ID,
//	    Email:   user.Email,
//	    Name:    user.Name,
//	})
//
// # Token Validation
//
// Validate and extract claims:
//
//	claims, err := service.Validate(tokenString)
//	if err != nil {
//	    // Invalid or expired token
//	}
//	userID := claims.UserID
//
// A service constructed with only PublicKeyPath can validate but not sign,
// which suits processes that never mint tokens.
package jwt
