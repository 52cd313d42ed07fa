package listing

import (
	"fmt"

	"github.com/gosimple/slug"
)

// TitleSlug transliterates a title into its URL form ("Продам диван" -> "prodam-divan").
func TitleSlug(title string) string {
	return slug.Make(title)
}

// URL builds the public path of a listing: /category/<category-slug>/<title-slug>.
func URL(categorySlug, title string) string {
	return fmt.Sprintf("/category/%s/%s", categorySlug, TitleSlug(title))
}
