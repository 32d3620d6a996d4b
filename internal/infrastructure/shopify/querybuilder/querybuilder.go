// Package querybuilder builds the GraphQL documents sent to the commerce
// platform. Each query shape is a typed builder that validates its inputs
// and escapes interpolated values, and every built document is parsed before
// it is allowed out, so a malformed filter value can never produce a
// syntactically broken query.
package querybuilder

import (
	"fmt"
	"strings"
	"time"

	"shopsight-gateway/internal/domain"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// Document is a built query ready for dispatch.
type Document struct {
	Query     string
	Variables map[string]interface{}
}

// Builder is one typed query shape.
type Builder interface {
	Build() (*Document, error)
}

// escaper neutralizes the characters that would break a platform search
// filter or an embedded string literal.
var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escape(value string) string {
	return escaper.Replace(value)
}

// validate parses the document and rejects anything syntactically invalid.
func validate(doc *Document) (*Document, error) {
	if _, err := parser.ParseQuery(&ast.Source{Input: doc.Query}); err != nil {
		return nil, fmt.Errorf("built an invalid query document: %w", err)
	}
	return doc, nil
}

func checkLimit(first int) error {
	if first <= 0 {
		return domain.NewValidationError("limit must be positive")
	}
	return nil
}

// searchFilter assembles the platform's search filter expression from the
// optional status and date range fields, escaping every value.
func searchFilter(status string, createdAfter, createdBefore time.Time) string {
	terms := []string{}
	if status != "" {
		terms = append(terms, fmt.Sprintf(`status:%s`, escape(status)))
	}
	if !createdAfter.IsZero() {
		terms = append(terms, fmt.Sprintf(`created_at:>=%s`, createdAfter.Format("2006-01-02")))
	}
	if !createdBefore.IsZero() {
		terms = append(terms, fmt.Sprintf(`created_at:<=%s`, createdBefore.Format("2006-01-02")))
	}
	if len(terms) == 0 {
		return ""
	}
	return fmt.Sprintf(`, query: "%s"`, strings.Join(terms, " "))
}

// ListOrders builds the order listing query with optional status and date
// range filters.
type ListOrders struct {
	First         int
	Status        string
	CreatedAfter  time.Time
	CreatedBefore time.Time
}

func (q ListOrders) Build() (*Document, error) {
	if err := checkLimit(q.First); err != nil {
		return nil, err
	}
	doc := fmt.Sprintf(`query {
  orders(first: %d%s) {
    edges {
      node {
        id
        name
        createdAt
        totalPriceSet {
          shopMoney {
            amount
            currencyCode
          }
        }
        lineItems(first: 20) {
          edges {
            node {
              title
              quantity
              variant {
                id
                sku
                price
              }
            }
          }
        }
        customer {
          id
          email
        }
      }
    }
  }
}`, q.First, searchFilter(q.Status, q.CreatedAfter, q.CreatedBefore))
	return validate(&Document{Query: doc})
}

// GetOrder builds a single-order lookup. The id travels as a variable, not
// an interpolated value.
type GetOrder struct {
	ID string
}

func (q GetOrder) Build() (*Document, error) {
	if q.ID == "" {
		return nil, domain.NewValidationError("order id is required")
	}
	doc := `query ($id: ID!) {
  order(id: $id) {
    id
    name
    createdAt
    totalPriceSet {
      shopMoney {
        amount
        currencyCode
      }
    }
    lineItems(first: 50) {
      edges {
        node {
          title
          quantity
        }
      }
    }
    customer {
      id
      email
    }
  }
}`
	return validate(&Document{
		Query:     doc,
		Variables: map[string]interface{}{"id": orderGID(q.ID)},
	})
}

// ListProducts builds the product listing query.
type ListProducts struct {
	First  int
	Status string
}

func (q ListProducts) Build() (*Document, error) {
	if err := checkLimit(q.First); err != nil {
		return nil, err
	}
	doc := fmt.Sprintf(`query {
  products(first: %d%s) {
    edges {
      node {
        id
        title
        status
        totalInventory
        variants(first: 10) {
          edges {
            node {
              id
              title
              sku
              price
              inventoryQuantity
            }
          }
        }
      }
    }
  }
}`, q.First, searchFilter(q.Status, time.Time{}, time.Time{}))
	return validate(&Document{Query: doc})
}

// GetProduct builds a single-product lookup.
type GetProduct struct {
	ID string
}

func (q GetProduct) Build() (*Document, error) {
	if q.ID == "" {
		return nil, domain.NewValidationError("product id is required")
	}
	doc := `query ($id: ID!) {
  product(id: $id) {
    id
    title
    status
    totalInventory
    variants(first: 25) {
      edges {
        node {
          id
          title
          sku
          price
          inventoryQuantity
        }
      }
    }
  }
}`
	return validate(&Document{
		Query:     doc,
		Variables: map[string]interface{}{"id": productGID(q.ID)},
	})
}

// ListCustomers builds the customer listing query.
type ListCustomers struct {
	First int
}

func (q ListCustomers) Build() (*Document, error) {
	if err := checkLimit(q.First); err != nil {
		return nil, err
	}
	doc := fmt.Sprintf(`query {
  customers(first: %d) {
    edges {
      node {
        id
        displayName
        email
        numberOfOrders
        createdAt
      }
    }
  }
}`, q.First)
	return validate(&Document{Query: doc})
}

// GetCustomer builds a single-customer lookup.
type GetCustomer struct {
	ID string
}

func (q GetCustomer) Build() (*Document, error) {
	if q.ID == "" {
		return nil, domain.NewValidationError("customer id is required")
	}
	doc := `query ($id: ID!) {
  customer(id: $id) {
    id
    displayName
    email
    numberOfOrders
    createdAt
  }
}`
	return validate(&Document{
		Query:     doc,
		Variables: map[string]interface{}{"id": customerGID(q.ID)},
	})
}

// InventoryLevels builds the inventory listing query.
type InventoryLevels struct {
	First int
}

func (q InventoryLevels) Build() (*Document, error) {
	if err := checkLimit(q.First); err != nil {
		return nil, err
	}
	doc := fmt.Sprintf(`query {
  inventoryItems(first: %d) {
    edges {
      node {
        id
        sku
        tracked
        inventoryLevels(first: 5) {
          edges {
            node {
              location {
                id
                name
              }
            }
          }
        }
      }
    }
  }
}`, q.First)
	return validate(&Document{Query: doc})
}

// RawAnalytics wraps a ShopifyQL analytics query. The query string is
// embedded as a string literal, so embedded quotation characters must be
// escaped before the document is assembled.
type RawAnalytics struct {
	Query string
}

func (q RawAnalytics) Build() (*Document, error) {
	if strings.TrimSpace(q.Query) == "" {
		return nil, domain.NewValidationError("analytics query is required")
	}
	doc := fmt.Sprintf(`query {
  shopifyqlQuery(query: "%s") {
    __typename
    ... on TableResponse {
      tableData {
        columns {
          name
          dataType
        }
        rowData
      }
    }
    parseErrors {
      code
      message
    }
  }
}`, escape(q.Query))
	return validate(&Document{Query: doc})
}

// The admin API addresses objects by global id. Plain numeric ids from the
// REST surface are widened here; ids already in gid form pass through.
func orderGID(id string) string    { return gid("Order", id) }
func productGID(id string) string  { return gid("Product", id) }
func customerGID(id string) string { return gid("Customer", id) }

func gid(kind, id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return fmt.Sprintf("gid://shopify/%s/%s", kind, id)
}
