// Package config provides the mimic server configuration and its loaders.
//
// A configuration can be read from a single file or merged from a directory
// of fragments:
//
//	cfg, err := config.LoadFromFile("mimic.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// YAML (.yaml, .yml), TOML (.toml) and JSON are recognized by file extension.
// A minimal YAML file looks like:
//
//	listen: ":8900"
//	base_url: http://localhost:8900
//	regions: [ORD, DFW, IAD]
//	plugins:
//	  - name: glance
//	    enabled: true
//	external:
//	  - name: objects
//	    type: object-store
//	    service_name: cloudFiles
//	    endpoints:
//	      - region: ORD
//	        version: v1
//	        url: https://storage.example.com
//	domains:
//	  - domain: api.example.com
//	    body: '"test-value"'
//
// Settings from MIMIC_LISTEN, MIMIC_BASE_URL and MIMIC_LOG_LEVEL override the
// loaded values when ApplyEnv is called.
package config
