// Package model holds the records the service persists and the request
// payloads its handlers bind and validate.
package model
