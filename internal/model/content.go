package model

// ProductContent represents one column of a tabular product and its optional
// association with a UCD tag and an alias. Rows are discovered by the backend
// from the uploaded main file; the client only mutates ucd and alias.
type ProductContent struct {
	ID         int     `json:"id"`
	Product    int     `json:"product"`
	ColumnName string  `json:"column_name"`
	UCD        *string `json:"ucd"`
	Alias      *string `json:"alias"`
	Order      int     `json:"order"`
}

// UCD is one entry of the fixed Unified Content Descriptor vocabulary offered
// for column association
type UCD struct {
	Name  string
	Value string
}

// UCD vocabulary, in display order
var ucds = []UCD{
	{Name: "ID", Value: "meta.id;meta.main"},
	{Name: "RA", Value: "pos.eq.ra;meta.main"},
	{Name: "Dec", Value: "pos.eq.dec;meta.main"},
	{Name: "z", Value: "src.redshift"},
	{Name: "z_err", Value: "stat.error;src.redshift"},
	{Name: "z_flag", Value: "stat.rank"},
	{Name: "survey", Value: "meta.curation"},
}

// UCDs returns the full UCD vocabulary
func UCDs() []UCD {
	out := make([]UCD, len(ucds))
	copy(out, ucds)
	return out
}

// UCDName returns the short name for a UCD value, or the value itself when it
// is not part of the vocabulary
func UCDName(value string) string {
	for _, u := range ucds {
		if u.Value == value {
			return u.Name
		}
	}
	return value
}

// AvailableUCDs returns the vocabulary entries that can be assigned to the
// column identified by contentID: every UCD not used by another column of the
// product, plus the column's own current assignment. Each UCD value may be
// held by at most one column at a time.
func AvailableUCDs(contents []ProductContent, contentID int) []UCD {
	used := make(map[string]bool)
	var own string
	for _, pc := range contents {
		if pc.UCD == nil {
			continue
		}
		if pc.ID == contentID {
			own = *pc.UCD
			continue
		}
		used[*pc.UCD] = true
	}

	var out []UCD
	for _, u := range ucds {
		if used[u.Value] && u.Value != own {
			continue
		}
		out = append(out, u)
	}
	return out
}
