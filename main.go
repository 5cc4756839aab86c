package main

import (
	"fmt"

	"github.com/RoamSim/RoamSim-Backend/api"
	"github.com/RoamSim/RoamSim-Backend/utils"
)

func main() {

	_, err := utils.LoadConfig(utils.EnvPath)
	if err != nil {
		panic(fmt.Sprintf("Could not load config: %v", err))
	}

	server := api.NewServer(utils.EnvPath)
	server.Start()
}
