package model

import "database/sql"

// Persona carries the party fields shared by remitente and destinatario
// as they arrive in a shipment request.
type Persona struct {
	Nombre       string `json:"nombre"`
	DocNumero    string `json:"doc_numero"`
	Telefono     string `json:"telefono"`
	Email        string `json:"email"`
	Direccion    string `json:"direccion"`
	CiudadOrigen string `json:"ciudad_origen"`
	CiudadDest   string `json:"ciudad_destino"`
}

type Remitente struct {
	ID           int    `db:"id" json:"id"`
	UserID       int    `db:"user_id" json:"user_id"`
	Nombre       string `db:"nombre" json:"nombre"`
	DocNumero    string `db:"doc_numero" json:"doc_numero"`
	Telefono     string `db:"telefono" json:"telefono"`
	Email        string `db:"email" json:"email"`
	Direccion    string `db:"direccion" json:"direccion"`
	CiudadOrigen string `db:"ciudad_origen" json:"ciudad_origen"`
	CreatedAt    string `db:"created_at" json:"created_at"`
}

type Destinatario struct {
	ID         int    `db:"id" json:"id"`
	Nombre     string `db:"nombre" json:"nombre"`
	DocNumero  string `db:"doc_numero" json:"doc_numero"`
	Telefono   string `db:"telefono" json:"telefono"`
	Direccion  string `db:"direccion" json:"direccion"`
	CiudadDest string `db:"ciudad_destino" json:"ciudad_destino"`
	CreatedAt  string `db:"created_at" json:"created_at"`
}

type Recoleccion struct {
	ID             int            `db:"id" json:"id"`
	UserID         int            `db:"user_id" json:"user_id"`
	RemitenteID    int            `db:"remitente_id" json:"remitente_id"`
	DestinatarioID int            `db:"destinatario_id" json:"destinatario_id"`
	ProductType    string         `db:"product_type" json:"product_type"`
	DeliveryTime   string         `db:"delivery_time" json:"delivery_time"`
	TransportType  string         `db:"transport_type" json:"transport_type"`
	PaymentMethod  string         `db:"payment_method" json:"payment_method"`
	CityFromLabel  string         `db:"city_from_label" json:"city_from_label"`
	CityToLabel    string         `db:"city_to_label" json:"city_to_label"`
	PickupDate     string         `db:"pickup_date" json:"pickup_date"`
	PickupHour     string         `db:"pickup_hour" json:"pickup_hour"`
	DistanceKm     int            `db:"distance_km" json:"distance_km"`
	PriceCop       int            `db:"price_cop" json:"price_cop"`
	Notes          sql.NullString `db:"notes" json:"notes"`
	DeclaredValue  sql.NullInt64  `db:"declared_value" json:"declared_value"`
	NumeroGuia     string         `db:"numero_guia" json:"numero_guia"`
	Estado         string         `db:"estado" json:"estado"`
	CreatedAt      string         `db:"created_at" json:"created_at"`
}

// RecoleccionDetail is the flattened shipment + parties row used by the
// receipt renderer and the mailer.
type RecoleccionDetail struct {
	ID            int            `db:"id" json:"id"`
	NumeroGuia    string         `db:"numero_guia" json:"numero_guia"`
	CreatedAt     string         `db:"created_at" json:"created_at"`
	PickupDate    string         `db:"pickup_date" json:"pickup_date"`
	PickupHour    string         `db:"pickup_hour" json:"pickup_hour"`
	ProductType   string         `db:"product_type" json:"product_type"`
	DeliveryTime  string         `db:"delivery_time" json:"delivery_time"`
	TransportType string         `db:"transport_type" json:"transport_type"`
	PaymentMethod string         `db:"payment_method" json:"payment_method"`
	PriceCop      int            `db:"price_cop" json:"price_cop"`
	DeclaredValue sql.NullInt64  `db:"declared_value" json:"declared_value"`
	DistanceKm    int            `db:"distance_km" json:"distance_km"`
	CityFromLabel string         `db:"city_from_label" json:"city_from_label"`
	CityToLabel   string         `db:"city_to_label" json:"city_to_label"`
	Notes         sql.NullString `db:"notes" json:"notes"`

	DestNombre string `db:"dest_nombre" json:"dest_nombre"`
	DestDoc    string `db:"dest_doc" json:"dest_doc"`
	DestTel    string `db:"dest_tel" json:"dest_tel"`
	DestDir    string `db:"dest_dir" json:"dest_dir"`
	DestCity   string `db:"dest_city" json:"dest_city"`

	RemNombre string `db:"rem_nombre" json:"rem_nombre"`
	RemDoc    string `db:"rem_doc" json:"rem_doc"`
	RemTel    string `db:"rem_tel" json:"rem_tel"`
	RemEmail  string `db:"rem_email" json:"rem_email"`
	RemDir    string `db:"rem_dir" json:"rem_dir"`
	RemCity   string `db:"rem_city" json:"rem_city"`
}
