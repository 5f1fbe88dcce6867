package app

import (
	"github.com/specialistvlad/visapack/internal/registry"
	"github.com/specialistvlad/visapack/modules/amadeus"
	"github.com/specialistvlad/visapack/modules/anthropic"
	"github.com/specialistvlad/visapack/modules/aviasales"
	"github.com/specialistvlad/visapack/modules/exa"
	"github.com/specialistvlad/visapack/modules/hotelbeds"
	"github.com/specialistvlad/visapack/modules/openai"
	"github.com/specialistvlad/visapack/modules/sample"
	"github.com/specialistvlad/visapack/modules/serpapi"
	"github.com/specialistvlad/visapack/modules/tavily"
)

// coreModules is the definitive list of all provider modules that are
// compiled into the visapack binary.
var coreModules = []registry.Module{
	&aviasales.Module{},
	&amadeus.Module{},
	&hotelbeds.Module{},
	&serpapi.Module{},
	&exa.Module{},
	&tavily.Module{},
	&openai.Module{},
	&anthropic.Module{},
	&sample.Module{},
}
