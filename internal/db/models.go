package db

import "time"

type Chunk struct {
	Dim       string
	X         int64
	Y         int64
	Biome     string
	Tiles     []byte
	UpdatedAt time.Time
}

type Character struct {
	ID  int64
	Dim string
	X   int64
	Y   int64
}

type InventoryItem struct {
	Name   string
	Amount int64
}
