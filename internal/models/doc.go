// Package models lists the models available to the configured translation
// backend, so users can pick a value for the backend.model setting.
package models
