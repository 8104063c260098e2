// Package export flattens quotes and authors into rows and hands them to a
// tabular writer.
package export

import (
	"context"
	"fmt"
	"strings"

	"quotes-scraper/models"
)

// RowWriter writes one table to target. The header row is always written,
// even when rows is empty.
type RowWriter interface {
	WriteRows(ctx context.Context, target string, header []string, rows [][]string) error
}

// Exporter writes quote and author artifacts through a RowWriter
type Exporter struct {
	writer        RowWriter
	tagsDelimiter string
}

// NewExporter creates an Exporter. Tags are joined with tagsDelimiter.
func NewExporter(w RowWriter, tagsDelimiter string) *Exporter {
	return &Exporter{
		writer:        w,
		tagsDelimiter: tagsDelimiter,
	}
}

// WriteQuotes writes the quotes artifact
func (e *Exporter) WriteQuotes(ctx context.Context, target string, quotes []models.Quote) error {
	if err := e.writer.WriteRows(ctx, target, models.QuoteFields, QuoteRows(quotes, e.tagsDelimiter)); err != nil {
		return fmt.Errorf("write quotes to %s: %w", target, err)
	}
	return nil
}

// WriteAuthors writes the authors artifact
func (e *Exporter) WriteAuthors(ctx context.Context, target string, authors []models.Author) error {
	if err := e.writer.WriteRows(ctx, target, models.AuthorFields, AuthorRows(authors)); err != nil {
		return fmt.Errorf("write authors to %s: %w", target, err)
	}
	return nil
}

// QuoteRows flattens quotes into text, author, tags rows
func QuoteRows(quotes []models.Quote, tagsDelimiter string) [][]string {
	rows := make([][]string, 0, len(quotes))
	for _, q := range quotes {
		rows = append(rows, []string{q.Text, q.Author, JoinTags(q.Tags, tagsDelimiter)})
	}
	return rows
}

// AuthorRows flattens authors into name, biography rows
func AuthorRows(authors []models.Author) [][]string {
	rows := make([][]string, 0, len(authors))
	for _, a := range authors {
		rows = append(rows, []string{a.Name, a.Biography})
	}
	return rows
}

// tagEscape prefixes a delimiter or a backslash that is part of a tag
const tagEscape = `\`

// JoinTags joins tags with tagsDelimiter. Occurrences of the delimiter and of
// the escape character inside a tag are backslash-escaped, so SplitTags
// always restores the original tags. tagsDelimiter must not contain a
// backslash.
func JoinTags(tags []string, tagsDelimiter string) string {
	r := strings.NewReplacer(tagEscape, tagEscape+tagEscape, tagsDelimiter, tagEscape+tagsDelimiter)

	escaped := make([]string, len(tags))
	for i, tag := range tags {
		escaped[i] = r.Replace(tag)
	}
	return strings.Join(escaped, tagsDelimiter)
}

// SplitTags reverses JoinTags. An empty field yields no tags.
func SplitTags(field, tagsDelimiter string) []string {
	if field == "" {
		return []string{}
	}

	var (
		tags []string
		cur  strings.Builder
	)
	for i := 0; i < len(field); {
		rest := field[i:]
		switch {
		case strings.HasPrefix(rest, tagEscape) && len(rest) > len(tagEscape):
			rest = rest[len(tagEscape):]
			if strings.HasPrefix(rest, tagsDelimiter) {
				cur.WriteString(tagsDelimiter)
				i += len(tagEscape) + len(tagsDelimiter)
			} else {
				cur.WriteByte(rest[0])
				i += len(tagEscape) + 1
			}
		case strings.HasPrefix(rest, tagsDelimiter):
			tags = append(tags, cur.String())
			cur.Reset()
			i += len(tagsDelimiter)
		default:
			cur.WriteByte(field[i])
			i++
		}
	}
	return append(tags, cur.String())
}
