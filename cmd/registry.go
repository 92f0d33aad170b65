package main

import (
	"log"

	"github.com/loft-lang/loft/registry"
)

type RegistryCmd struct {
	Addr    string `default:":5050" help:"Address to listen on."`
	Storage string `default:"./registry-storage" help:"Directory for registry state."`
	Owner   string `default:"admin" help:"Username for the bootstrap token on first start."`
}

func (c *RegistryCmd) Run() error {
	reg, err := registry.Open(c.Storage)
	if err != nil {
		return err
	}

	// First start: mint one token so the registry is usable at all.
	// It is logged once and never shown again.
	if !reg.HasTokens() {
		token, _, err := reg.CreateToken(c.Owner, "bootstrap")
		if err != nil {
			return err
		}
		log.Printf("created bootstrap token for %s: %s", c.Owner, token)
	}

	return registry.NewServer(reg).ListenAndServe(c.Addr)
}
