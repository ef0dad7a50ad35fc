// Package services holds the application logic behind the HTTP handlers:
// the cached catalog and its admin writes, admin login and the runtime
// spreadsheet connection.
package services
