package payroll

import "errors"

var (
	ErrDocumentNotFound = errors.New("payroll document not found")
)
