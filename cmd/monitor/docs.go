package main

//go:generate swag init -g cmd/monitor/main.go -o docs

// @title           P2P Market Monitor API
// @version         0.1.0
// @description     P2P offer ingestion, market aggregations, and retention controls.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
