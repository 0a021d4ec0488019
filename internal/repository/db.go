package repository

// scanner abstracts over *sql.Row and *sql.Rows so the scan helpers work
// for both single and multi row queries.
type scanner interface {
	Scan(dest ...any) error
}
