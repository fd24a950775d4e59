// Package repositories provides the sqlite persistence layer for local client state.
//
// Two stores back the orchestration layer:
//   - [CredentialRepository] : key-value storage of the issued credential
//     (token, user_id, user_name, user_email), written on sign-in and cleared
//     on logout or credential expiry.
//   - [SessionCacheRepository] : a snapshot of the most recent session
//     summaries, replaced wholesale on every history refresh (no incremental
//     merge) and served back for offline listing.
package repositories
