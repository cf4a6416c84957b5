package product

import "fmt"

// Company is a brand of the group.
type Company struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	IsExternal   bool   `json:"is_external"`
	ExternalLink string `json:"external_link,omitempty"`
}

var companies = []Company{
	{
		Name:        "ZAP Stationers",
		Slug:        "zap-stationers",
		Description: "Quality pens, paper, and office supplies.",
	},
	{
		Name:        "ZAP Fragrances",
		Slug:        "zap-fragrances",
		Description: "Exquisite perfumes and scents for every occasion.",
	},
	{
		Name:        "ZAP Gadgets",
		Slug:        "zap-gadgets",
		Description: "The latest in tech and electronic gadgets.",
	},
	{
		Name:         "ZAP Photography",
		Slug:         "zap-photography",
		Description:  "Professional photography services and prints.",
		IsExternal:   true,
		ExternalLink: "#",
	},
}

// Companies returns the registry in display order.
func Companies() []Company {
	out := make([]Company, len(companies))
	copy(out, companies)

	return out
}

// CompanyBySlug looks a company up by its URL slug.
func CompanyBySlug(slug string) (Company, error) {
	for _, c := range companies {
		if c.Slug == slug {
			return c, nil
		}
	}

	return Company{}, fmt.Errorf("%w: %q", ErrUnknownCompany, slug)
}

// CatalogCompany is like CompanyBySlug but rejects external companies.
func CatalogCompany(slug string) (Company, error) {
	c, err := CompanyBySlug(slug)
	if err != nil {
		return Company{}, err
	}
	if c.IsExternal {
		return Company{}, fmt.Errorf("%w: %q", ErrExternalCompany, slug)
	}

	return c, nil
}
