package item

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		item Item
		want FSKind
	}{
		{"course", NewCourse(Course{ShortName: "CS101"}), Directory},
		{"synthesized directory", NewSynthesizedDirectory("root", nil), Directory},
		{"synthesized file", NewSynthesizedFile("Blackboard.desktop", nil), File},
		{
			"course item with attachments",
			NewCourseItem(CourseItem{Name: "Notes", Attachments: []string{"/a"}}),
			Directory,
		},
		{
			"course item with description and payload",
			NewCourseItem(CourseItem{Name: "Syllabus", Payload: Payload{Kind: Link, URL: "/s"}, Description: "Read me"}),
			Directory,
		},
		{
			"course item with folder payload",
			NewCourseItem(CourseItem{Name: "Week 1", Payload: Payload{Kind: FolderURL, URL: "/u/w1"}}),
			Directory,
		},
		{
			"course item with file payload only",
			NewCourseItem(CourseItem{Name: "a", Payload: Payload{Kind: FileURL, URL: "/f"}}),
			File,
		},
		{
			"course item with link payload only, no attachments",
			NewCourseItem(CourseItem{Name: "link", Payload: Payload{Kind: Link, URL: "/l"}}),
			File,
		},
		{
			"course item with description only, no payload",
			NewCourseItem(CourseItem{Name: "desc", Description: "hi"}),
			File,
		},
		{
			"empty course item",
			NewCourseItem(CourseItem{Name: "empty"}),
			File,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.item); got != tc.want {
				t.Errorf("Classify(%+v) = %v, want %v", tc.item, got, tc.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	cases := []struct {
		name     string
		item     Item
		wantName string
		wantOK   bool
	}{
		{"course", NewCourse(Course{ShortName: "CS101"}), "CS101", true},
		{"synthesized file", NewSynthesizedFile("Blackboard.desktop", nil), "Blackboard.desktop", true},
		{"synthesized directory", NewSynthesizedDirectory("root", nil), "root", true},
		{
			"directory course item keeps verbatim name",
			NewCourseItem(CourseItem{Name: "Week 1", Payload: Payload{Kind: FolderURL, URL: "/u/w1"}}),
			"Week 1", true,
		},
		{
			"file url needs provider",
			NewCourseItem(CourseItem{Name: "a", Payload: Payload{Kind: FileURL, URL: "/f"}}),
			"", false,
		},
		{
			"link without attachments gets shortcut extension",
			NewCourseItem(CourseItem{Name: "link", Payload: Payload{Kind: Link, URL: "/l"}}),
			"link.desktop", true,
		},
		{
			"description only gets .txt",
			NewCourseItem(CourseItem{Name: "desc", Description: "hi"}),
			"desc.txt", true,
		},
		{
			"empty course item keeps stored name",
			NewCourseItem(CourseItem{Name: "empty"}),
			"empty", true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			name, ok := DisplayName(tc.item, "desktop")
			if name != tc.wantName || ok != tc.wantOK {
				t.Errorf("DisplayName(%+v) = (%q, %v), want (%q, %v)", tc.item, name, ok, tc.wantName, tc.wantOK)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		name      string
		in        string
		unixSlash bool
		want      string
	}{
		{"windows rewrites question and slash stays", "HW?/2", false, "HW-/2"},
		{"unix rewrites question mark and slash", "HW?/2", true, "HW--2"},
		{"no reserved characters", "plain-name.txt", true, "plain-name.txt"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sanitize(tc.in, tc.unixSlash); got != tc.want {
				t.Errorf("Sanitize(%q, %v) = %q, want %q", tc.in, tc.unixSlash, got, tc.want)
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{"HW?/2", "normal", "a<b>c:d\\e|f?g*h", ""}
	for _, in := range inputs {
		for _, unixSlash := range []bool{true, false} {
			once := Sanitize(in, unixSlash)
			twice := Sanitize(once, unixSlash)
			if once != twice {
				t.Errorf("Sanitize not idempotent for %q (unixSlash=%v): %q != %q", in, unixSlash, once, twice)
			}
		}
	}
}

func TestAttachmentItems(t *testing.T) {
	ci := CourseItem{Name: "Notes", Attachments: []string{"/a", "/b"}}
	got := AttachmentItems(ci)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for i, url := range ci.Attachments {
		if got[i].Kind != KindCourseItem || got[i].CourseItem.Payload.Kind != FileURL || got[i].CourseItem.Payload.URL != url {
			t.Errorf("attachment %d = %+v, want FileURL %q", i, got[i], url)
		}
		if got[i].CourseItem.Name != "" {
			t.Errorf("attachment %d name = %q, want empty (provider-resolved)", i, got[i].CourseItem.Name)
		}
	}
}

func TestDescriptionFileItem(t *testing.T) {
	if _, ok := DescriptionFileItem(CourseItem{Name: "x"}); ok {
		t.Error("expected no description file for empty description")
	}
	got, ok := DescriptionFileItem(CourseItem{Name: "Syllabus", Description: "Read me"})
	if !ok {
		t.Fatal("expected a description file")
	}
	if got.Kind != KindSynthesizedFile || got.SynthesizedFile.Name != "Syllabus" || string(got.SynthesizedFile.Contents) != "Read me" {
		t.Errorf("got %+v", got)
	}
}

func TestLinkShortcutItem(t *testing.T) {
	if _, ok := LinkShortcutItem(CourseItem{Name: "x", Payload: Payload{Kind: FolderURL, URL: "/l"}}, "desktop", "body"); ok {
		t.Error("expected no shortcut for a non-Link payload")
	}
	ci := CourseItem{Name: "Syllabus", Payload: Payload{Kind: Link, URL: "/s"}}
	got, ok := LinkShortcutItem(ci, "desktop", "[Desktop Entry]\n")
	if !ok {
		t.Fatal("expected a shortcut file regardless of attachments")
	}
	if got.SynthesizedFile.Name != "Syllabus.desktop" {
		t.Errorf("name = %q", got.SynthesizedFile.Name)
	}
}
