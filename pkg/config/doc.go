// Package config loads handler files for the mock event client.
//
// A handler file is YAML or JSON. It carries optional registry options and a
// list of handlers, each with a URL pattern and canned responses or a response
// generator:
//
//	options:
//	  replayInterval: 50ms
//	  namespace: /v1/
//	handlers:
//	  - url: users/*
//	    responses:
//	      - {name: user, id: "1", data: {id: 1}}
//	  - glob: /v1/ticks/**
//	    generator:
//	      count: 3
//	      name: '"tick"'
//	      data: '{"n": index}'
//
// Files are checked against an embedded JSON schema before they are decoded.
// Generator fields are expr-lang expressions evaluated once per generated
// event with index, handler and url in scope.
//
//	f, err := config.LoadFromFile("handlers.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	reg := mockevent.NewRegistry(f.RegistryOptions()...)
//	handlers, err := config.Register(reg, f)
package config
