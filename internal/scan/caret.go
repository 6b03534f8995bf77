package scan

import (
	"context"
	"errors"
	"fmt"

	"github.com/phobologic/caretctx/internal/cursor"
	"github.com/phobologic/caretctx/internal/lang"
	"github.com/phobologic/caretctx/internal/literal"
	"github.com/phobologic/caretctx/internal/model"
	"github.com/phobologic/caretctx/internal/syntax"
)

// ErrOffset is returned for a caret outside the source.
var ErrOffset = errors.New("offset out of range")

// Marker returns the cursor marker inserted at the caret.
func (s *Scanner) Marker() string {
	for _, m := range s.cfg.CursorMarkers {
		if m != "" {
			return m
		}
	}
	return cursor.DefaultMarker
}

// Caret inserts the cursor marker into source at offset, reparses it and
// describes the node under the caret the way a completion host would see
// it.
func (s *Scanner) Caret(ctx context.Context, path string, source []byte, offset int) (*model.CaretReport, error) {
	l, err := lang.ForPath(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if offset < 0 || offset > len(source) {
		return nil, fmt.Errorf("offset %d in %d-byte file: %w", offset, len(source), ErrOffset)
	}

	marker := s.Marker()
	edited := make([]byte, 0, len(source)+len(marker))
	edited = append(edited, source[:offset]...)
	edited = append(edited, marker...)
	edited = append(edited, source[offset:]...)

	doc, err := lang.Parse(ctx, l, edited, lang.WithTypes(s.cfg.Types))
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	n := doc.NodeAt(offset)
	if n == nil {
		return nil, fmt.Errorf("no node at offset %d: %w", offset, ErrOffset)
	}
	line, col := doc.Position(offset)
	r := &model.CaretReport{
		File:     path,
		Offset:   offset,
		Line:     line,
		Column:   col,
		Language: l.Name,
		Node:     n.Kind(),
		Class:    syntax.Classify(n).String(),
	}
	if text, ok := literal.Extract(n, literal.Defaults); ok {
		r.Text, r.HasText = text, true
	}

	s.cursorContext(r, n)

	if _, call, ok := s.endpoint(doc, n); ok {
		r.Call = call
	}
	s.log.Debug().Str("node", r.Node).Str("class", r.Class).Str("call", r.Call).Msg("caret")
	return r, nil
}

// cursorContext fills the query parameter and end-of-line fields of r. The
// first cursor error is kept in r.Error.
func (s *Scanner) cursorContext(r *model.CaretReport, n syntax.Node) {
	q, err := s.cursor.QueryParameterAt(n)
	if err != nil {
		r.Error = err.Error()
	} else {
		r.Key, r.Value, r.HasValue = q.Key, q.Value, q.HasValue
	}
	atEnd, err := s.cursor.IsCaretAtEndOfLine(n)
	if err != nil && r.Error == "" {
		r.Error = err.Error()
	}
	r.AtEnd = atEnd
}
