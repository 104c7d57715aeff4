// Package catalog turns patient profiles into the ordered therapy search
// categories the recommender retrieves candidates for. Each category carries
// an arm key, a primary query and ordered fallback queries.
package catalog
