package portfolio

import (
	"encoding/json"
	"testing"
)

func TestProjectMediaAliasNormalization(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"canonical", `{"title":"t","thumbnail":"thumb.png"}`, "thumb.png"},
		{"coverImage", `{"title":"t","coverImage":"cover.png"}`, "cover.png"},
		{"cover", `{"title":"t","cover":"c.png"}`, "c.png"},
		{"image", `{"title":"t","image":"i.png"}`, "i.png"},
		{"img", `{"title":"t","img":"g.png"}`, "g.png"},
		{"canonical wins over alias", `{"title":"t","thumbnail":"thumb.png","image":"i.png"}`, "thumb.png"},
		{"first alias wins", `{"title":"t","cover":"c.png","img":"g.png"}`, "c.png"},
		{"none", `{"title":"t"}`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p Project
			if err := json.Unmarshal([]byte(tc.raw), &p); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if p.Thumbnail != tc.want {
				t.Errorf("thumbnail = %q, want %q", p.Thumbnail, tc.want)
			}
		})
	}
}

func TestLegacySingularInternship(t *testing.T) {
	raw := `{"name":"x","internship":{"company":"Acme","role":"Intern","text":"<p>did things</p>"}}`
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Internships) != 1 {
		t.Fatalf("expected legacy internship normalized to one-element list, got %d", len(doc.Internships))
	}
	if doc.Internships[0].Company != "Acme" {
		t.Errorf("company = %q", doc.Internships[0].Company)
	}
}

func TestLegacySingularInternshipDoesNotOverrideList(t *testing.T) {
	raw := `{"internship":{"company":"Old","text":"x"},"internships":[{"company":"New","text":"y"}]}`
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Internships) != 1 || doc.Internships[0].Company != "New" {
		t.Fatalf("internships list must win over the legacy field, got %+v", doc.Internships)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := Default()
	doc.Blog = []BlogPost{{Title: "Hello World", Body: "<p>hi</p>"}}
	doc = Normalize(doc)

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Document
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Name != doc.Name || len(back.Projects) != len(doc.Projects) {
		t.Fatalf("round trip lost data: %+v", back)
	}
	if back.Blog[0].Slug != "hello-world" {
		t.Errorf("expected generated slug hello-world, got %q", back.Blog[0].Slug)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":            "hello-world",
		"  Spaces --- and such ": "spaces-and-such",
		"Already-Slugged":        "already-slugged",
		"C++ & Go!":              "c-go",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
