package catalog

import "testing"

func TestKeyDerivationIsDeterministic(t *testing.T) {
	if CategoryImageKey("Dehydrated Fruits") != CategoryImageKey("Dehydrated Fruits") {
		t.Fatalf("category key not stable")
	}
	if ProductGalleryKey("Trail Mix", 2) != ProductGalleryKey("Trail Mix", 2) {
		t.Fatalf("gallery key not stable")
	}
}

func TestKeyShapes(t *testing.T) {
	if got := CategoryImageKey("Dehydrated Fruits"); got != "categories-images/Dehydrated Fruits" {
		t.Fatalf("category key: %s", got)
	}
	if got := ProductImageKey("Trail Mix"); got != "products-images/Trail Mix" {
		t.Fatalf("product key: %s", got)
	}
	if got := ProductGalleryKey("Trail Mix", 0); got != "products-images/Trail Mix/0" {
		t.Fatalf("gallery key: %s", got)
	}
}
