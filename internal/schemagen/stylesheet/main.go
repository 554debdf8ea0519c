package main

import (
	"flag"
	"log"
	"os"

	"github.com/geocraft/sldcat/api/v1beta1/stylesheets"
	"github.com/geocraft/sldcat/pkg/yaml"
)

var outFile = flag.String("o", "stylesheets.v1beta1.json", "Output file for the generated schema")

func main() {
	flag.Parse()

	gen := yaml.NewSchemaGenerator(stylesheets.New(),
		"github.com/geocraft/sldcat/api/v1beta1/stylesheets",
	)
	jsData, err := gen.Generate()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(*outFile, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
