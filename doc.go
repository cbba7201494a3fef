// Package main provides the entry point of FabricStock, a fabric inventory web
// service. It serves a JSON API with fiber, stores data with gorm and guards
// every route with role and capability checks.
package main
