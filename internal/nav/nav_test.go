package nav

import "testing"

func TestBuildMarksActiveSection(t *testing.T) {
	items := Build("/catalog")
	var active int
	for _, it := range items {
		if it.Active {
			active++
			if it.Href != "/catalog" {
				t.Fatalf("wrong active item: %+v", it)
			}
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active item, got %d", active)
	}
}

func TestActivePrefixBoundary(t *testing.T) {
	if !isActive("/guides", "/guides/wood-care") {
		t.Fatal("expected /guides active for /guides/wood-care")
	}
	if isActive("/cart", "/cartel") {
		t.Fatal("prefix match must respect path boundary")
	}
}

func TestBreadcrumbsDeepPath(t *testing.T) {
	crumbs := Breadcrumbs("/guides/wood-care")
	if len(crumbs) != 3 {
		t.Fatalf("expected 3 crumbs, got %v", crumbs)
	}
	if crumbs[1].Label != "Guides" || crumbs[1].Active {
		t.Fatalf("unexpected section crumb: %+v", crumbs[1])
	}
	if crumbs[2].Label != "Wood care" || !crumbs[2].Active {
		t.Fatalf("unexpected leaf crumb: %+v", crumbs[2])
	}
}
