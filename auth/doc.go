// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides bearer tokens and ID generation.

# Bearer Tokens

Tokens are HS256 JWTs carrying a user ID and a mandatory expiry:

	signer := auth.NewSigner(secret, 24*time.Hour)
	token, err := signer.Issue(userID)
	userID, err := signer.Verify(token)

Verify returns ErrExpiredToken for expired tokens and ErrInvalidToken for
anything else that fails (bad signature, wrong algorithm, no expiry).
A token without a userId claim yields ErrMissingUser.

The live connection carries the token as the "token" query parameter; HTTP
routes read it from the Authorization header.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(8)  // 16 hex characters
*/
package auth
