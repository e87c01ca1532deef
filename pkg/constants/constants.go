// Package constants provides shared constants used throughout the ncreconcile codebase.
// This includes archive naming conventions, CF attribute names, file permissions and
// numeric tolerances that should be consistent across the application.
package constants

import "time"

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Archive layout constants
const (
	// StationPrefix is the prefix every station directory name starts with
	StationPrefix = "SN"

	// DatasetSuffix is the suffix of dataset files inside the year directories
	DatasetSuffix = ".nc"

	// RebuildSuffix is appended to a file path to name its rebuilt counterpart
	RebuildSuffix = "-updated"

	// BackfillSuffix is appended to a file path while an additive backfill is committed
	BackfillSuffix = "-backfilled"

	// AggregationSuffix names the per-station NcML descriptor (<station>-aggregated.ncml)
	AggregationSuffix = "-aggregated.ncml"

	// LogFileName is the file written inside the log directory
	LogFileName = "ncreconcile.log"
)

// CF attribute and coordinate names
const (
	// AttrFeatureType is the global attribute declaring the CF feature type
	AttrFeatureType = "featureType"

	// AttrStandardName is the CF standard name attribute
	AttrStandardName = "standard_name"

	// AttrLongName is the descriptive label attribute
	AttrLongName = "long_name"

	// AttrUnits is the unit string attribute
	AttrUnits = "units"

	// AttrFillValue is the NetCDF fill value attribute
	AttrFillValue = "_FillValue"

	// AttrMissingValue is the CF missing value attribute, used when _FillValue is absent
	AttrMissingValue = "missing_value"

	// TimeDimension is the name of the time dimension and coordinate
	TimeDimension = "time"
)

// VerticalDimensions lists the accepted names of the vertical coordinate.
var VerticalDimensions = []string{"depth", "height"}

// DefaultProfileVariables lists the variables inspected to locate the vertical dimension.
var DefaultProfileVariables = []string{"soil_temperature"}

// Tolerances used when matching vertical levels: |a-b| <= abs + rel*|b|.
const (
	LevelRelativeTolerance = 1e-5
	LevelAbsoluteTolerance = 1e-8
)

// Timeout constants
const (
	// ShutdownTimeout bounds cleanup when the CLI exits
	ShutdownTimeout = 5 * time.Second
)

// Format constants
const (
	// TimeFormatCoverage is the format of time_coverage_* attributes
	TimeFormatCoverage = "2006-01-02T15:04:05-0700"

	// TimeFormatReport is the format used in run reports
	TimeFormatReport = "2006-01-02 15:04:05 UTC"
)
