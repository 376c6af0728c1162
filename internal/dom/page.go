package dom

import (
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Page is an in-memory Document backed by a parsed HTML tree.
type Page struct {
	mu        sync.Mutex
	doc       *goquery.Document
	observers []func(Patch)
}

// NewPage parses markup into a Page.
func NewPage(markup string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &Page{doc: doc}, nil
}

// Observe registers fn to receive every mutation after it is applied.
func (p *Page) Observe(fn func(Patch)) {
	p.mu.Lock()
	p.observers = append(p.observers, fn)
	p.mu.Unlock()
}

// HTML renders the current tree.
func (p *Page) HTML() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Html()
}

// Find runs a CSS selector over the current tree and hands the selection to fn
// under the page lock. fn must not mutate.
func (p *Page) Find(selector string, fn func(*goquery.Selection)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.doc.Find(selector))
}

func (p *Page) byID(id string) *goquery.Selection {
	return p.doc.Find("#" + id).First()
}

// mutate applies fn to the element under the lock, then notifies observers.
func (p *Page) mutate(id string, fn func(*goquery.Selection) (Patch, bool)) bool {
	p.mu.Lock()
	sel := p.byID(id)
	if sel.Length() == 0 {
		p.mu.Unlock()
		return false
	}
	patch, emit := fn(sel)
	obs := append([]func(Patch){}, p.observers...)
	p.mu.Unlock()

	if emit {
		for _, o := range obs {
			o(patch)
		}
	}
	return true
}

func (p *Page) Text(id string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sel := p.byID(id)
	if sel.Length() == 0 {
		return "", false
	}
	return sel.Text(), true
}

func (p *Page) SetText(id, text string) bool {
	return p.mutate(id, func(s *goquery.Selection) (Patch, bool) {
		s.SetText(text)
		return Patch{Op: OpText, ID: id, Value: text}, true
	})
}

func (p *Page) SetHTML(id, html string) bool {
	return p.mutate(id, func(s *goquery.Selection) (Patch, bool) {
		s.SetHtml(html)
		return Patch{Op: OpHTML, ID: id, Value: html}, true
	})
}

func (p *Page) AddClass(id string, classes ...string) bool {
	return p.mutate(id, func(s *goquery.Selection) (Patch, bool) {
		s.AddClass(classes...)
		return Patch{Op: OpClass, ID: id, Value: tidyClass(s)}, true
	})
}

func (p *Page) RemoveClass(id string, classes ...string) bool {
	return p.mutate(id, func(s *goquery.Selection) (Patch, bool) {
		s.RemoveClass(classes...)
		return Patch{Op: OpClass, ID: id, Value: tidyClass(s)}, true
	})
}

func (p *Page) HasClass(id, class string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.byID(id).HasClass(class)
}

func (p *Page) SetClassName(id, className string) bool {
	return p.mutate(id, func(s *goquery.Selection) (Patch, bool) {
		s.SetAttr("class", className)
		return Patch{Op: OpClass, ID: id, Value: className}, true
	})
}

func (p *Page) SetAttr(id, name, value string) bool {
	return p.mutate(id, func(s *goquery.Selection) (Patch, bool) {
		s.SetAttr(name, value)
		return Patch{Op: OpAttr, ID: id, Name: name, Value: value}, true
	})
}

// Value returns an input's value attribute, or a textarea's text.
func (p *Page) Value(id string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	sel := p.byID(id)
	if goquery.NodeName(sel) == "textarea" {
		return sel.Text()
	}
	v, _ := sel.Attr("value")
	return v
}

// SetValue syncs a form field with the browser's state. Observers are not
// notified since the browser already holds the value.
func (p *Page) SetValue(id, value string) bool {
	return p.mutate(id, func(s *goquery.Selection) (Patch, bool) {
		if goquery.NodeName(s) == "textarea" {
			s.SetText(value)
		} else {
			s.SetAttr("value", value)
		}
		return Patch{}, false
	})
}

// SelectedValues returns the values of a select's selected options in document order.
func (p *Page) SelectedValues(id string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	p.byID(id).Find("option").Each(func(_ int, o *goquery.Selection) {
		if _, ok := o.Attr("selected"); !ok {
			return
		}
		out = append(out, optionValue(o))
	})
	return out
}

// SetSelected marks exactly the options whose values are in values as selected.
func (p *Page) SetSelected(id string, values []string) bool {
	want := make(map[string]bool, len(values))
	for _, v := range values {
		want[v] = true
	}
	return p.mutate(id, func(s *goquery.Selection) (Patch, bool) {
		s.Find("option").Each(func(_ int, o *goquery.Selection) {
			if want[optionValue(o)] {
				o.SetAttr("selected", "selected")
			} else {
				o.RemoveAttr("selected")
			}
		})
		return Patch{}, false
	})
}

func optionValue(o *goquery.Selection) string {
	if v, ok := o.Attr("value"); ok {
		return v
	}
	return strings.TrimSpace(o.Text())
}

// tidyClass collapses the class attribute to single-spaced names and writes it back.
func tidyClass(s *goquery.Selection) string {
	cls, _ := s.Attr("class")
	cls = strings.Join(strings.Fields(cls), " ")
	s.SetAttr("class", cls)
	return cls
}
