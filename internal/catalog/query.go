package catalog

import (
	"fmt"
	"strings"
)

// Sort keys accepted by the catalog API's products connection.
const (
	SortRelevance   = "RELEVANCE"
	SortBestSelling = "BEST_SELLING"
	SortTitle       = "TITLE"
	SortPrice       = "PRICE"
	SortCreatedAt   = "CREATED_AT"
)

// productFields is the node selection shared by every product query.
const productFields = `
id
title
description
handle
productType
vendor
tags
createdAt
updatedAt
priceRange {
  minVariantPrice { amount currencyCode }
  maxVariantPrice { amount currencyCode }
}
images(first: 5) {
  edges { node { id transformedSrc altText } }
}
variants(first: 20) {
  edges {
    node {
      id
      title
      sku
      availableForSale
      quantityAvailable
      price { amount currencyCode }
      compareAtPrice { amount currencyCode }
      image { transformedSrc }
    }
  }
}`

// ProductsQuery describes a page request against the products connection.
// Build assembles the query document; every embedded string value is
// escaped, so free-text terms and cursors can never break out of the
// document.
type ProductsQuery struct {
	First   int
	After   string
	Query   string
	SortKey string
}

func (q ProductsQuery) Build() string {
	first := q.First
	if first <= 0 || first > 250 {
		first = 50
	}

	var args []string
	args = append(args, fmt.Sprintf("first: %d", first))
	if q.After != "" {
		args = append(args, fmt.Sprintf(`after: "%s"`, escapeString(q.After)))
	}
	if q.Query != "" {
		args = append(args, fmt.Sprintf(`query: "%s"`, escapeString(q.Query)))
	}
	if q.SortKey != "" {
		args = append(args, "sortKey: "+sanitizeSortKey(q.SortKey))
	}

	var b strings.Builder
	b.WriteString("query Products {\n")
	b.WriteString(fmt.Sprintf("  products(%s) {\n", strings.Join(args, ", ")))
	b.WriteString("    pageInfo { hasNextPage endCursor }\n")
	b.WriteString("    edges { node {")
	b.WriteString(productFields)
	b.WriteString("\n    } }\n  }\n}")
	return b.String()
}

// ProductByHandleQuery fetches a single product by its URL slug.
type ProductByHandleQuery struct {
	Handle string
}

func (q ProductByHandleQuery) Build() string {
	var b strings.Builder
	b.WriteString("query ProductByHandle {\n")
	b.WriteString(fmt.Sprintf(`  productByHandle(handle: "%s") {`, escapeString(q.Handle)))
	b.WriteString(productFields)
	b.WriteString("\n  }\n}")
	return b.String()
}

// SellingPlansQuery fetches the subscription plan groups for a product.
type SellingPlansQuery struct {
	Handle string
}

func (q SellingPlansQuery) Build() string {
	var b strings.Builder
	b.WriteString("query SellingPlans {\n")
	b.WriteString(fmt.Sprintf("  productByHandle(handle: \"%s\") {\n", escapeString(q.Handle)))
	b.WriteString(`    id
    sellingPlanGroups(first: 10) {
      edges {
        node {
          name
          sellingPlans(first: 10) {
            edges {
              node {
                id
                name
                options { name value }
                priceAdjustments {
                  adjustmentValue {
                    ... on SellingPlanPercentagePriceAdjustment {
                      adjustmentPercentage
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`)
	return b.String()
}

// escapeString neutralizes characters that would terminate or reshape a
// quoted GraphQL string.
func escapeString(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
	)
	return r.Replace(s)
}

// sanitizeSortKey restricts the sort argument to the known enum values;
// anything else falls back to relevance. Sort keys are enum tokens, not
// strings, so they must never carry caller input verbatim.
func sanitizeSortKey(key string) string {
	switch strings.ToUpper(strings.TrimSpace(key)) {
	case SortBestSelling:
		return SortBestSelling
	case SortTitle:
		return SortTitle
	case SortPrice:
		return SortPrice
	case SortCreatedAt:
		return SortCreatedAt
	default:
		return SortRelevance
	}
}
