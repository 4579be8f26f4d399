package fleetapi

import "strings"

// Notes attached to entities the sync registers on its own.
const (
	AutoVehicleDescription = "Cadastrado automaticamente via integração com ProFrotas"
	AutoPersonNotes        = "Cadastrado Automaticamente Via integração ProFrotas"
)

// VehicleColor is the nested color object of a vehicle.
type VehicleColor struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// VehicleOption is an accessory entry of a vehicle.
type VehicleOption struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// VehiclePayload is the body of POST /vehicle. The API requires every field
// to be present, so unknown attributes are sent as empty strings and zeros.
type VehiclePayload struct {
	LicensePlate                      string          `json:"license_plate"`
	Status                            string          `json:"status"`
	NumberRenavan                     string          `json:"number_renavan"`
	VIN                               string          `json:"vin"`
	NumberCRV                         string          `json:"number_crv"`
	DocYear                           int             `json:"doc_year"`
	Model                             string          `json:"model"`
	ModelYear                         int             `json:"model_year"`
	Version                           string          `json:"version"`
	ManufactureYear                   int             `json:"manufacture_year"`
	Brand                             string          `json:"brand"`
	Mark                              string          `json:"mark"`
	Group                             string          `json:"group"`
	Color                             VehicleColor    `json:"color"`
	NumberSeats                       int             `json:"number_seats"`
	NumberDoors                       int             `json:"number_doors"`
	NumberLargeBags                   int             `json:"number_large_bags"`
	NumberSmallBags                   int             `json:"number_small_bags"`
	EngineNumber                      string          `json:"engine_number"`
	EnginePower                       int             `json:"engine_power"`
	CylindersNumber                   int             `json:"cylinders_number"`
	AxlesNumber                       int             `json:"axles_number"`
	VolumeEngine                      int             `json:"volume_engine"`
	VolumeTank                        int             `json:"volume_tank"`
	Consumption                       int             `json:"consumption"`
	Options                           []VehicleOption `json:"options"`
	MinPrice                          int             `json:"min_price"`
	Price                             int             `json:"price"`
	Description                       string          `json:"description"`
	LastLatitude                      float64         `json:"last_latitude"`
	LastLongitude                     float64         `json:"last_longitude"`
	LastAddressCEP                    string          `json:"last_address_cep"`
	LastAddressCity                   string          `json:"last_address_city"`
	LastAddressUF                     string          `json:"last_address_uf"`
	LastAddressStreet                 string          `json:"last_address_street"`
	LastAddressNumber                 string          `json:"last_address_number"`
	LastAddressComplement             string          `json:"last_address_complement"`
	LastAddressNeighborhood           string          `json:"last_address_neighborhood"`
	LastSpeed                         int             `json:"last_speed"`
	LastFuelLevel                     int             `json:"last_fuel_level"`
	LastOdometer                      int             `json:"last_odometer"`
	LastEngineHours                   int             `json:"last_engine_hours"`
	RegisteredAtCity                  string          `json:"registered_at_city"`
	RegisteredAtUF                    string          `json:"registered_at_uf"`
	AlienationPrice                   int             `json:"alienation_price"`
	AlienationPaymentMethod           string          `json:"alienation_payment_method"`
	AlienationPaymentInstallment      int             `json:"alienation_payment_installment"`
	AlienationPaymentInstallmentValue int             `json:"alienation_payment_installment_value"`
	AlienationPaymentInstallmentTotal int             `json:"alienation_payment_installment_total"`
	LicenseDocuments                  []int           `json:"license_documents"`
	SalesPhotoIDs                     []int           `json:"salesPhotoIds"`
	PriceSale                         int             `json:"price_sale"`
	AlienationPaymentInstallmentPay   int             `json:"alienation_payment_installment_payment"`
}

// NewAutoVehicle builds the placeholder vehicle registered when a plate is
// unknown. Only the plate carries real data.
func NewAutoVehicle(plate string) VehiclePayload {
	return VehiclePayload{
		LicensePlate:     strings.ToUpper(plate),
		Status:           "active",
		Options:          []VehicleOption{{}},
		Description:      AutoVehicleDescription,
		LicenseDocuments: []int{0},
		SalesPhotoIDs:    []int{0},
	}
}

// PersonPayload is the body of POST /person.
type PersonPayload struct {
	Type   string `json:"type"`
	Gender string `json:"gender"`
	Name   string `json:"name"`
	CPF    string `json:"cpf"`
	Notes  string `json:"notes"`
}

// NewAutoPerson builds the driver registered when a cpf is unknown.
// name and cpf are expected to be normalized already.
func NewAutoPerson(name, cpf string) PersonPayload {
	return PersonPayload{
		Type:   "Individual",
		Gender: "male",
		Name:   name,
		CPF:    cpf,
		Notes:  AutoPersonNotes,
	}
}
