package resolver

// lookupCache remembers successful supplier and product lookups for the
// length of one run. Misses are never stored so that a record processed
// later can still find an entity registered in the meantime.
type lookupCache struct {
	suppliers map[string]int
	products  map[string]int
}

func newLookupCache() *lookupCache {
	return &lookupCache{
		suppliers: make(map[string]int),
		products:  make(map[string]int),
	}
}

// A nil cache is disabled: gets always miss and puts are dropped.

func (c *lookupCache) supplier(cnpj string) (int, bool) {
	if c == nil {
		return 0, false
	}
	id, ok := c.suppliers[cnpj]
	return id, ok
}

func (c *lookupCache) putSupplier(cnpj string, id int) {
	if c != nil {
		c.suppliers[cnpj] = id
	}
}

func (c *lookupCache) product(name string) (int, bool) {
	if c == nil {
		return 0, false
	}
	id, ok := c.products[name]
	return id, ok
}

func (c *lookupCache) putProduct(name string, id int) {
	if c != nil {
		c.products[name] = id
	}
}
