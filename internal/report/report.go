// Package report renders a check run as a markdown document.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/ncreconcile/pkg/check"
	"github.com/agentstation/ncreconcile/pkg/constants"
	"github.com/agentstation/ncreconcile/pkg/errors"
	"github.com/agentstation/ncreconcile/pkg/reconciler"
)

// Write renders result as markdown to w.
func Write(w io.Writer, result *check.Result) error {
	doc := md.NewMarkdown(w)

	doc.H1("Station archive check")
	doc.BulletList(header(result)...)
	doc.PlainText(result.Summary())

	doc.H2("Stations")
	doc.Table(md.TableSet{
		Header: []string{"Station", "Status", "Files", "Unchanged", "Backfilled", "Rebuilt", "Failed"},
		Rows:   stationRows(result),
	})

	for _, st := range result.Stations {
		if !st.HasChanges() && st.Status() == reconciler.StatusSuccess {
			continue
		}
		doc.H3(st.Name)
		if st.Reference != "" {
			doc.PlainText("Reference schema: " + md.Code(filepath.Base(st.Reference)))
		}
		if st.Grid != nil {
			doc.PlainText("Vertical grid: " + md.Code(st.Grid.String()))
		}
		if st.Error != "" {
			doc.PlainText(md.Bold("Aborted:") + " " + st.Error)
		}
		doc.Table(md.TableSet{
			Header: []string{"File", "Status", "Added", "Extra", "Action", "Error"},
			Rows:   fileRows(st),
		})
	}

	return doc.Build()
}

// WriteFile renders result as markdown to path.
func WriteFile(path string, result *check.Result) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.WrapIO("close", path, cerr)
		}
	}()
	if err := Write(f, result); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

func header(result *check.Result) []string {
	mode := "apply"
	switch {
	case result.DryRun:
		mode = "dry run"
	case result.Overwrite:
		mode = "apply, overwrite rebuilt files"
	}
	return []string{
		"Archive: " + md.Code(result.Root),
		"Started: " + result.StartedAt.Time.UTC().Format(constants.TimeFormatReport),
		"Finished: " + result.FinishedAt.Time.UTC().Format(constants.TimeFormatReport),
		fmt.Sprintf("Duration: %s", result.Duration().Round(time.Millisecond)),
		"Mode: " + mode,
	}
}

func stationRows(result *check.Result) [][]string {
	rows := make([][]string, 0, len(result.Stations))
	for _, st := range result.Stations {
		c := st.Counts()
		rows = append(rows, []string{
			st.Name,
			string(st.Status()),
			strconv.Itoa(c.Files),
			strconv.Itoa(c.Unchanged),
			strconv.Itoa(c.Backfill),
			strconv.Itoa(c.Rebuilt),
			strconv.Itoa(c.Failed),
		})
	}
	return rows
}

func fileRows(st *check.StationResult) [][]string {
	rows := make([][]string, 0, len(st.Files))
	for _, f := range st.Files {
		action := string(f.Action)
		if f.Reference {
			action = "reference"
		}
		rows = append(rows, []string{
			filepath.Base(f.Path),
			string(f.Status),
			cell(strings.Join(f.Added, ", ")),
			cell(strings.Join(f.Extra, ", ")),
			cell(action),
			cell(strings.ReplaceAll(f.Error, "|", "\\|")),
		})
	}
	return rows
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
