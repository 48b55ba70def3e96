// Package jwt provides JSON Web Token utilities for the Taskboard API.
//
// Tokens are signed with RS256. The service signs with the private key and
// validates with the public key, so validation-only deployments can run
// without the private key on disk.
//
// # Signing
//
//	service, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "./keys/private.pem",
//	    Issuer:         "taskboard.relayhq.dev",
//	    ExpirationMins: 60,
//	})
//
//	token, err := service.Sign(jwt.Claims{
//	    UserID:   user.ID,
//	    Email:    user.Email,
//	    Username: user.Username,
//	    Role:     string(user.Role),
//	})
//
// # Validation
//
//	claims, err := service.Validate(tokenString)
//	if err != nil {
//	    // jwt.ErrTokenExpired, jwt.ErrInvalidSignature, jwt.ErrInvalidToken
//	}
//	userID := claims.UserID
//
// # Claims
//
// Standard claims (iss, sub, exp, iat, ...) are carried alongside the
// custom user_id, email, username and role claims. Role is informational
// for the admin surface only; project-level authorization never reads it.
package jwt
