package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeProductID canonicalizes a product id to the string form of its
// numeric catalog id. The document store keys products by the integer and the
// graph by its string form; normalizing here keeps the two stores joined.
func NormalizeProductID(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("product id is empty")
	}
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return "", fmt.Errorf("product id %q is not numeric", raw)
	}
	if n < 0 {
		return "", fmt.Errorf("product id %q is negative", raw)
	}
	return strconv.FormatInt(n, 10), nil
}

// ProductCatalogID parses a normalized product id back to the numeric catalog id.
func ProductCatalogID(productID string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(productID), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("product id %q is not numeric", productID)
	}
	return n, nil
}
