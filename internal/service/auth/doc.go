// Package auth provides session tokens, password hashing and the post-login
// redirect policy. Token signing uses HMAC-SHA256 via golang-jwt; passwords
// are hashed and verified with bcrypt.
package auth
