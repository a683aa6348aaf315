package internal

// Version is the current wordhover release.
const Version = "0.3.0"
