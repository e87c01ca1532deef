// Package ncml writes the NcML aggregation descriptor of a station: a
// joinExisting aggregation along time that scans the station directory for
// data files, plus the ACDD attributes a catalog server cannot derive from
// the files themselves.
package ncml

import (
	"encoding/xml"
	"io"

	"github.com/agentstation/ncreconcile/pkg/constants"
)

// Namespace is the NcML 2.2 namespace.
const Namespace = "http://www.unidata.ucar.edu/namespaces/netcdf/ncml-2.2"

// Attribute names written to the descriptor.
const (
	AttrID                = "id"
	AttrTimeCoverageStart = "time_coverage_start"
	AttrTimeCoverageEnd   = "time_coverage_end"
)

// Document is the root <netcdf> element.
type Document struct {
	XMLName     xml.Name    `xml:"http://www.unidata.ucar.edu/namespaces/netcdf/ncml-2.2 netcdf"`
	Aggregation Aggregation `xml:"aggregation"`
	Attributes  []Attribute `xml:"attribute"`
}

// Aggregation joins the scanned files along a dimension.
type Aggregation struct {
	DimName      string `xml:"dimName,attr"`
	Type         string `xml:"type,attr"`
	RecheckEvery string `xml:"recheckEvery,attr,omitempty"`
	Scan         *Scan  `xml:"scan,omitempty"`
}

// Scan selects the files of an aggregation.
type Scan struct {
	Location string `xml:"location,attr"`
	Suffix   string `xml:"suffix,attr"`
	Subdirs  bool   `xml:"subdirs,attr"`
}

// Attribute is a global attribute override.
type Attribute struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// New returns a descriptor aggregating every data file below location.
func New(location string) *Document {
	return &Document{
		Aggregation: Aggregation{
			DimName:      constants.TimeDimension,
			Type:         "joinExisting",
			RecheckEvery: "2 hour",
			Scan: &Scan{
				Location: location,
				Suffix:   constants.DatasetSuffix,
				Subdirs:  true,
			},
		},
	}
}

// Set adds or replaces an attribute.
func (d *Document) Set(name, value string) {
	for i := range d.Attributes {
		if d.Attributes[i].Name == name {
			d.Attributes[i].Value = value
			return
		}
	}
	d.Attributes = append(d.Attributes, Attribute{Name: name, Value: value})
}

// Get returns the value of an attribute.
func (d *Document) Get(name string) (string, bool) {
	for _, a := range d.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Encode writes the document with an XML declaration.
func (d *Document) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(d); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Decode reads a document.
func Decode(r io.Reader) (*Document, error) {
	var d Document
	if err := xml.NewDecoder(r).Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}
