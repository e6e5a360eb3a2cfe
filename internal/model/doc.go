package model

// Package model defines domain data structures used across the app: cards with
// their chapters and tracks, and the background task entities and status enums.
// Structures are designed for direct binding in the UI and explicit state
// transitions. JSON tags follow the Yoto API wire names.
