// Package audit records plant mutations in the audit_logs table and lists
// them back for the /audit endpoint.
//
// Entries are append-only. Writing an entry is best effort from the caller's
// point of view: the API logs a failed insert and carries on.
package audit
