package export

// Dataset defines tabular export content. Rows are keyed by header.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// NewDataset starts an empty dataset with the given columns.
func NewDataset(headers ...string) Dataset {
	return Dataset{Headers: headers}
}

// Append adds a row from positional values; missing trailing values stay empty.
func (d *Dataset) Append(values ...string) {
	row := make(map[string]string, len(d.Headers))
	for i, header := range d.Headers {
		if i < len(values) {
			row[header] = values[i]
		}
	}
	d.Rows = append(d.Rows, row)
}

// Column returns every value of header in row order.
func (d Dataset) Column(header string) []string {
	values := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		values[i] = row[header]
	}
	return values
}
