package env

// Prefix is the env variable prefix for CLI flags
const Prefix = "TASAS"
