// Package envfile manages the helpdesk's .env file.
//
// The file is treated as a sequence of opaque lines rather than parsed into a
// structure. A write rewrites exactly one line, the first line that starts
// with "KEY=", and leaves comments, blank lines, ordering and unknown keys
// untouched. A key that is not present is appended on a new line.
//
// Key operations:
//
//   - Upsert / UpsertMany: set one or several variables (the only mutations)
//   - Get / Values / Missing: read values, resolving a duplicated key to the
//     same first line a write targets and skipping free-form lines
//   - Preview: show the line diff an Upsert would produce
//   - Watch: report edits made to the file by other processes
//
// Every Upsert holds an exclusive lock on "<file>.lock" for the whole
// read-modify-write cycle, so concurrent writers (two admin requests, or the
// CLI next to the web application) cannot lose each other's updates.
// UpsertMany has no cross-key atomicity: a failure part way leaves the keys
// written so far in place, and the caller is told which ones they are.
package envfile
