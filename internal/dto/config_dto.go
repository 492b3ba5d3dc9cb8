package dto

// DestinatariosRequest replaces the full recipient list of the daily report.
type DestinatariosRequest struct {
	Emails []string `json:"emails" validate:"max=5,dive,required,email"`
}

type DestinatariosResponse struct {
	Emails []string `json:"emails"`
}
