package fleetapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Collection endpoints.
const (
	VehiclePath    = "/vehicle"
	PersonPath     = "/person"
	SupplierPath   = "/supplier"
	ProductPath    = "/product"
	FuelSupplyPath = "/fuel-supply"
)

// Entity shapes. Only the fields the sync reads are declared.
type (
	Vehicle struct {
		ID           int    `json:"id"`
		LicensePlate string `json:"license_plate"`
	}

	Person struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		CPF  string `json:"cpf"`
	}

	Supplier struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	Product struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	FuelSupply struct {
		ID   int    `json:"id"`
		Code string `json:"code"`
	}
)

// listEnvelope is the shape of every collection response.
type listEnvelope[T any] struct {
	Data []T `json:"data"`
}

// itemEnvelope is the shape of every creation response.
type itemEnvelope[T any] struct {
	Data *T `json:"data"`
}

// singlePage asks for the first page holding one record.
func singlePage(key, value string) url.Values {
	q := url.Values{}
	q.Set("page", "1")
	q.Set("limit", "1")
	q.Set(key, value)
	return q
}

// FindVehicleByPlate returns the first vehicle with the plate, or nil.
func (c *Client) FindVehicleByPlate(ctx context.Context, plate string) (*Vehicle, error) {
	return findFirst[Vehicle](ctx, c, VehiclePath, singlePage("license_plate", plate))
}

// FindPersonByCPF returns the first person with the cpf, or nil.
func (c *Client) FindPersonByCPF(ctx context.Context, cpf string) (*Person, error) {
	return findFirst[Person](ctx, c, PersonPath, singlePage("cpf", cpf))
}

// FindSupplierByCNPJ returns the first supplier with the cnpj, or nil.
func (c *Client) FindSupplierByCNPJ(ctx context.Context, cnpj string) (*Supplier, error) {
	return findFirst[Supplier](ctx, c, SupplierPath, singlePage("cnpjs[]", cnpj))
}

// FindProductByName returns the first product with the exact name, or nil.
func (c *Client) FindProductByName(ctx context.Context, name string) (*Product, error) {
	return findFirst[Product](ctx, c, ProductPath, singlePage("name", name))
}

// FindFuelSupplies returns the fuel supplies registered under code.
func (c *Client) FindFuelSupplies(ctx context.Context, code string) ([]FuelSupply, error) {
	q := url.Values{}
	q.Set("code", code)
	return findAll[FuelSupply](ctx, c, FuelSupplyPath, q)
}

// CreateVehicle registers a vehicle and returns it.
func (c *Client) CreateVehicle(ctx context.Context, payload VehiclePayload) (*Vehicle, error) {
	return create[Vehicle](ctx, c, VehiclePath, payload)
}

// CreatePerson registers a person and returns it.
func (c *Client) CreatePerson(ctx context.Context, payload PersonPayload) (*Person, error) {
	return create[Person](ctx, c, PersonPath, payload)
}

// CreateFuelSupply submits a fuel supply. Only the outcome matters to the
// caller, so the response body is discarded.
func (c *Client) CreateFuelSupply(ctx context.Context, payload any) error {
	resp, err := c.Post(ctx, FuelSupplyPath, payload)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return statusError(http.MethodPost, FuelSupplyPath, resp)
	}
	return nil
}

func findFirst[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	records, err := findAll[T](ctx, c, path, query)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func findAll[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	resp, err := c.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, statusError(http.MethodGet, path, resp)
	}
	var envelope listEnvelope[T]
	if err := resp.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	return envelope.Data, nil
}

func create[T any](ctx context.Context, c *Client, path string, payload any) (*T, error) {
	resp, err := c.Post(ctx, path, payload)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, statusError(http.MethodPost, path, resp)
	}
	var envelope itemEnvelope[T]
	if err := resp.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("POST %s: response has no data", path)
	}
	return envelope.Data, nil
}

func statusError(method, path string, resp *Response) error {
	return &StatusError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Body:       string(resp.Body),
	}
}
