package types

import "fmt"

// Status is the closed set of per-record outcomes.
type Status int

const (
	StatusUnknown Status = iota
	StatusAlreadyExists
	StatusCreated
	StatusCreatedWithVehicle
	StatusCreatedWithDriver
	StatusCreatedWithVehicleAndDriver
	StatusVehicleNotFound
	StatusVehicleCreateFailed
	StatusDriverNotFound
	StatusDriverCreateFailed
	StatusSupplierNotFound
	StatusItemsJSONError
	StatusCreateFailed
	StatusProcessingError
)

// AllStatuses returns every terminal status in report order.
func AllStatuses() []Status {
	return []Status{
		StatusCreated,
		StatusCreatedWithVehicle,
		StatusCreatedWithDriver,
		StatusCreatedWithVehicleAndDriver,
		StatusAlreadyExists,
		StatusVehicleNotFound,
		StatusVehicleCreateFailed,
		StatusDriverNotFound,
		StatusDriverCreateFailed,
		StatusSupplierNotFound,
		StatusItemsJSONError,
		StatusProcessingError,
		StatusCreateFailed,
	}
}

// String returns the status tag written to the report.
func (s Status) String() string {
	switch s {
	case StatusAlreadyExists:
		return "JA_EXISTE"
	case StatusCreated:
		return "CRIADO"
	case StatusCreatedWithVehicle:
		return "CRIADO_COM_VEICULO_AUTO"
	case StatusCreatedWithDriver:
		return "CRIADO_COM_MOTORISTA_AUTO"
	case StatusCreatedWithVehicleAndDriver:
		return "CRIADO_COM_VEICULO_E_MOTORISTA_AUTO"
	case StatusVehicleNotFound:
		return "VEICULO_NAO_ENCONTRADO"
	case StatusVehicleCreateFailed:
		return "ERRO_CADASTRO_VEICULO"
	case StatusDriverNotFound:
		return "MOTORISTA_NAO_ENCONTRADO"
	case StatusDriverCreateFailed:
		return "ERRO_CADASTRO_MOTORISTA"
	case StatusSupplierNotFound:
		return "FORNECEDOR_NAO_ENCONTRADO"
	case StatusItemsJSONError:
		return "ERRO_JSON_ITEMS"
	case StatusCreateFailed:
		return "ERRO_CRIACAO"
	case StatusProcessingError:
		return "ERRO_PROCESSAMENTO"
	case StatusUnknown:
		return ""
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ParseStatus is the inverse of String.
func ParseStatus(tag string) (Status, error) {
	for _, s := range AllStatuses() {
		if s.String() == tag {
			return s, nil
		}
	}
	return StatusUnknown, fmt.Errorf("unknown status %q", tag)
}

// Succeeded reports whether the record ended up present in the API,
// either because it was created now or already existed.
func (s Status) Succeeded() bool {
	switch s {
	case StatusAlreadyExists,
		StatusCreated,
		StatusCreatedWithVehicle,
		StatusCreatedWithDriver,
		StatusCreatedWithVehicleAndDriver:
		return true
	case StatusUnknown,
		StatusVehicleNotFound,
		StatusVehicleCreateFailed,
		StatusDriverNotFound,
		StatusDriverCreateFailed,
		StatusSupplierNotFound,
		StatusItemsJSONError,
		StatusCreateFailed,
		StatusProcessingError:
		return false
	}
	return false
}

// CreatedStatus picks the success status from the auto-registrations that
// happened while processing the record.
func CreatedStatus(vehicleCreated, driverCreated bool) Status {
	switch {
	case vehicleCreated && driverCreated:
		return StatusCreatedWithVehicleAndDriver
	case vehicleCreated:
		return StatusCreatedWithVehicle
	case driverCreated:
		return StatusCreatedWithDriver
	default:
		return StatusCreated
	}
}
