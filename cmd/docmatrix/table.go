package main

import (
	"bytes"
	"errors"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// ErrNoTable reports a document without a compatibility table.
var ErrNoTable = errors.New("no compatibility table found")

// CompatRow is one interpreter row of the compatibility table. Marks
// holds the support marks column by column, aligned with the table's
// Columns.
type CompatRow struct {
	Interpreter string
	Marks       []string
	Line        int
}

// CompatTable is the parsed compatibility table: one column per
// dependency pin, one row per interpreter.
type CompatTable struct {
	Columns []string
	Rows    []CompatRow
	Line    int
}

// ParseCompatTable extracts the first table from a markdown document.
// The first header cell is a row label and is skipped.
func ParseCompatTable(source []byte) (*CompatTable, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	reader := text.NewReader(source)
	doc := md.Parser().Parse(reader)

	var table *CompatTable

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || table != nil {
			return ast.WalkContinue, nil
		}
		if n.Kind() != east.KindTable {
			return ast.WalkContinue, nil
		}

		table = &CompatTable{}
		for row := n.FirstChild(); row != nil; row = row.NextSibling() {
			cells, line := rowCells(row, source)
			if len(cells) == 0 {
				continue
			}
			switch row.Kind() {
			case east.KindTableHeader:
				table.Columns = cells[1:]
				table.Line = line
			case east.KindTableRow:
				table.Rows = append(table.Rows, CompatRow{
					Interpreter: cells[0],
					Marks:       cells[1:],
					Line:        line,
				})
			}
		}
		return ast.WalkSkipChildren, nil
	})

	if table == nil {
		return nil, ErrNoTable
	}
	return table, nil
}

// rowCells collects the trimmed cell texts of a table row and the
// source line of its first cell.
func rowCells(row ast.Node, source []byte) ([]string, int) {
	var cells []string
	line := 0
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		text, start := inlineText(cell, source)
		cells = append(cells, strings.TrimSpace(text))
		if line == 0 && start >= 0 {
			line = lineAt(source, start)
		}
	}
	return cells, line
}

// inlineText renders a node's inline text children and returns the
// source offset of the first one, or -1 when the node is empty.
func inlineText(node ast.Node, source []byte) (string, int) {
	var buf bytes.Buffer
	start := -1
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if textNode, ok := child.(*ast.Text); ok {
			if start < 0 {
				start = textNode.Segment.Start
			}
			buf.Write(textNode.Segment.Value(source))
		}
	}
	return buf.String(), start
}

func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.Count(source[:offset], []byte("\n")) + 1
}
