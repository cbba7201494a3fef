package config

// DB holds the database configuration settings.
// Engine is one of sqlite, mysql or postgres; Path is only used by sqlite.
type DB struct {
	Engine   string
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Path     string
}
