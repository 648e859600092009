package dataset

import "sort"

// Record is one labeled training example.
type Record struct {
	Sequence string
	Label    string
}

// Dataset is the usable record set of one file.
type Dataset struct {
	// Source names the file the records came from.
	Source string
	// Records are the usable rows in file order.
	Records []Record
	// Dropped counts rows skipped for missing values or malformed syntax.
	Dropped int
}

// Len returns the number of usable records.
func (d *Dataset) Len() int { return len(d.Records) }

// Sequences returns the sequence column in file order.
func (d *Dataset) Sequences() []string {
	out := make([]string, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.Sequence
	}
	return out
}

// Labels returns the label column in file order.
func (d *Dataset) Labels() []string {
	out := make([]string, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.Label
	}
	return out
}

// Classes returns the sorted distinct labels.
func (d *Dataset) Classes() []string {
	counts := d.ClassCounts()
	out := make([]string, 0, len(counts))
	for label := range counts {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// ClassCounts returns the number of records per label.
func (d *Dataset) ClassCounts() map[string]int {
	counts := make(map[string]int)
	for _, r := range d.Records {
		counts[r.Label]++
	}
	return counts
}
