package catalog

import "fmt"

// Object keys derive deterministically from the entity name (and, for
// gallery images, the positional index) so a failed attempt can roll back
// exactly the keys it wrote without listing the bucket. Existing stored
// objects depend on this scheme; do not change it.

// CategoryImageKey returns the object key for a category's image.
func CategoryImageKey(categoryName string) string {
	return "categories-images/" + categoryName
}

// ProductImageKey returns the object key for a product's main image.
func ProductImageKey(productName string) string {
	return "products-images/" + productName
}

// ProductGalleryKey returns the object key for the gallery image at index.
func ProductGalleryKey(productName string, index int) string {
	return fmt.Sprintf("products-images/%s/%d", productName, index)
}
