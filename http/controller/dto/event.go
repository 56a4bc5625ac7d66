package dto

type StorageEventResponseDTO struct {
	Queued int      `json:"queued"`
	Files  []string `json:"files"`
}
