// Package google handles OAuth2 authentication against Google for the
// calendar accounts dayplan manages.
//
// Each account ("work", "personal") authorizes independently and gets its own
// token file under the user cache directory. Tokens are acquired once through
// an interactive authorization step (see the auth command), then refreshed
// automatically from the stored refresh token on every later use.
package google
