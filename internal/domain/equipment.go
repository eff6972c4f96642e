package domain

import "time"

// EquipmentType enumerates inventory item kinds.
type EquipmentType string

const (
	EquipmentNotebook  EquipmentType = "Notebook"
	EquipmentDesktop   EquipmentType = "Desktop"
	EquipmentMonitor   EquipmentType = "Monitor"
	EquipmentPrinter   EquipmentType = "Impressora"
	EquipmentScanner   EquipmentType = "Scanner"
	EquipmentRouter    EquipmentType = "Roteador"
	EquipmentSwitch    EquipmentType = "Switch"
	EquipmentServer    EquipmentType = "Servidor"
	EquipmentTablet    EquipmentType = "Tablet"
	EquipmentCellPhone EquipmentType = "Celular Corporativo"
	EquipmentProjector EquipmentType = "Projetor"
	EquipmentKeyboard  EquipmentType = "Teclado"
	EquipmentMouse     EquipmentType = "Mouse"
	EquipmentUPS       EquipmentType = "Nobreak"
	EquipmentLicense   EquipmentType = "Licença de Software"
	EquipmentOther     EquipmentType = "Outro Equipamento"
)

// EquipmentStatus enumerates inventory item states.
type EquipmentStatus string

const (
	EquipmentInStock       EquipmentStatus = "Em Estoque"
	EquipmentInUse         EquipmentStatus = "Em Uso"
	EquipmentInMaintenance EquipmentStatus = "Em Manutenção"
	EquipmentLoaned        EquipmentStatus = "Emprestado"
	EquipmentDiscarded     EquipmentStatus = "Descartado"
	EquipmentOrdered       EquipmentStatus = "Pedido"
	EquipmentLost          EquipmentStatus = "Extraviado"
)

// EquipmentTypes lists types in declaration order.
func EquipmentTypes() []EquipmentType {
	return []EquipmentType{
		EquipmentNotebook, EquipmentDesktop, EquipmentMonitor, EquipmentPrinter,
		EquipmentScanner, EquipmentRouter, EquipmentSwitch, EquipmentServer,
		EquipmentTablet, EquipmentCellPhone, EquipmentProjector, EquipmentKeyboard,
		EquipmentMouse, EquipmentUPS, EquipmentLicense, EquipmentOther,
	}
}

// EquipmentItem is a tracked inventory asset.
type EquipmentItem struct {
	ID                 string
	Name               string
	Type               EquipmentType
	SerialNumber       *string
	PatrimonyNumber    *string
	Status             EquipmentStatus
	Location           *string
	AssignedToUserName *string
	Supplier           *string
	PurchaseDate       *time.Time
	WarrantyEndDate    *time.Time
	PurchaseValue      *float64
	Notes              *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
