package dom

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func parseBody(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader("<html><body>" + src + "</body></html>"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return Find(doc, IsTag(atom.Body))
}

func TestElementAndRender(t *testing.T) {
	n := Append(Element("div", "class", "wrapper", "dangling"),
		Element("img", "src", "a.png", "alt", "A & B"),
		Text("x<y"),
	)
	got := Render(n)
	want := `<div class="wrapper"><img src="a.png" alt="A &amp; B"/>x&lt;y</div>`
	if got != want {
		t.Errorf("Render() = %s, want %s", got, want)
	}
	if n.DataAtom != atom.Div {
		t.Errorf("DataAtom = %v, want div", n.DataAtom)
	}
}

func TestAttributes(t *testing.T) {
	n := Element("video", "controls", "")
	if !HasAttr(n, "controls") {
		t.Fatal("controls attribute expected")
	}
	SetAttr(n, "loop", "")
	SetAttr(n, "controls", "x")
	if Attr(n, "controls") != "x" || len(n.Attr) != 2 {
		t.Errorf("unexpected attributes %v", n.Attr)
	}
	RemoveAttr(n, "controls")
	if HasAttr(n, "controls") {
		t.Error("controls should be removed")
	}
	if Attr(nil, "a") != "" || HasAttr(nil, "a") {
		t.Error("nil node has no attributes")
	}
}

func TestClasses(t *testing.T) {
	n := Element("div", "class", "block  columns")
	AddClass(n, "columns", "columns-2-cols", "")
	if got := Attr(n, "class"); got != "block columns columns-2-cols" {
		t.Errorf("class = %q", got)
	}
	if !HasClass(n, "block") || HasClass(n, "col") {
		t.Error("HasClass mismatch")
	}
}

func TestFindAndClosest(t *testing.T) {
	body := parseBody(t, `<div class="a"><p><a href="1">one</a></p><div class="b"><a href="2">two</a></div></div>`)

	links := FindAll(body, IsTag(atom.A))
	if len(links) != 2 || Attr(links[0], "href") != "1" || Attr(links[1], "href") != "2" {
		t.Fatalf("FindAll() returned wrong nodes: %d", len(links))
	}
	if got := Closest(links[1], HasClassPred("b")); got == nil || !HasClass(got, "b") {
		t.Error("Closest() did not find enclosing div.b")
	}
	if got := Closest(links[0], HasClassPred("b")); got != nil {
		t.Error("Closest() must not find unrelated div.b")
	}
	if Find(body, IsTag(atom.Video)) != nil {
		t.Error("Find() returned node for absent tag")
	}
	if got := TextContent(body); got != "onetwo" {
		t.Errorf("TextContent() = %q", got)
	}
	if len(Children(body)) != 1 {
		t.Error("Children() expected single div")
	}
}

func TestReplace(t *testing.T) {
	body := parseBody(t, `<p><a href="x">x</a><span>tail</span></p>`)
	a := Find(body, IsTag(atom.A))
	pic := Element("picture")
	Replace(a, pic)

	if a.Parent != nil {
		t.Error("old node must be detached")
	}
	if got := Render(body.FirstChild); got != "<p><picture></picture><span>tail</span></p>" {
		t.Errorf("after Replace() = %s", got)
	}

	// detached nodes are ignored
	Replace(a, Element("div"))

	RemoveChildren(body)
	if body.FirstChild != nil {
		t.Error("RemoveChildren() left children")
	}
}
