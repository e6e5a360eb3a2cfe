package api

// Package api implements the Yoto cloud API client: device-code OAuth login
// with tokens persisted to disk, and the card content operations (create or
// update, fetch, list, delete).
