package model

// Package model defines domain data structures used across the app: products,
// product files, column associations, reference data, and status enums.
// Structures are designed for direct binding in the UI and mirror the wire
// format of the Photo-z Server REST API.
