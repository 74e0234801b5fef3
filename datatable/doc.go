// Package datatable turns CSV design tables into XML game data.
//
// A YAML manifest lists the tables: each names a source CSV, a typed column
// schema, and an output XML path. Generate validates every cell against the
// schema and writes one XML document per table. Watch regenerates whenever a
// source or the manifest changes, giving designers an edit-and-reload loop.
//
//	tables:
//	  - name: items
//	    source: data/items.csv
//	    output: gen/items.xml
//	    columns:
//	      - {name: id, type: int}
//	      - {name: title, type: string}
//	      - {name: price, type: float}
//	      - {name: stackable, type: bool}
//
// The companion CLI lives in cmd/gamedata.
package datatable
