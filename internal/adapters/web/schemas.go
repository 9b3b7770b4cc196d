package web

import (
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

// requestBodies lists the request bodies published under GET /api/schemas/{name}.
var requestBodies = map[string]any{
	"add-inventory":   &AddInventoryBody{},
	"transfer":        &TransferBody{},
	"warehouse":       &WarehouseBody{},
	"warehouse-patch": &WarehousePatchBody{},
	"category":        &CategoryBody{},
	"category-patch":  &CategoryPatchBody{},
	"product":         &ProductBody{},
	"product-patch":   &ProductPatchBody{},
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

var schemaReflector = &jsonschema.Reflector{
	DoNotReference:             true,
	RequiredFromJSONSchemaTags: true,
	// decimal.Decimal has no exported fields; on the wire it is a number.
	Mapper: func(t reflect.Type) *jsonschema.Schema {
		if t == decimalType {
			return &jsonschema.Schema{Type: "number"}
		}
		return nil
	},
}

// schemaNames returns the published schema names in sorted order.
func schemaNames() []string {
	names := make([]string, 0, len(requestBodies))
	for name := range requestBodies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// schema handles GET /api/schemas/{name}.
func (h *Handler) schema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	body, ok := requestBodies[name]
	if !ok {
		writeError(w, r, "unknown schema "+name+"; available: "+strings.Join(schemaNames(), ", "),
			"NOT_FOUND", http.StatusNotFound)
		return
	}
	writeJSON(w, schemaReflector.Reflect(body))
}
