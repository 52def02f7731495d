// Package inspect exposes a container over HTTP.
//
//	GET    /services                  registered services (?loaded=1 for loaded only)
//	GET    /services/{name}           one definition
//	POST   /services/{name}/load      load a service              (token)
//	GET    /parameters                all parameters
//	GET    /parameters/{name}         one parameter
//	PUT    /parameters/{name}         set a parameter             (token)
//	DELETE /parameters/{name}         unset a parameter           (token)
//
// Write routes require "Authorization: Bearer <key>". With an empty key they
// always answer 401.
package inspect

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/km-arc/go-injector/framework/container"
	"github.com/km-arc/go-injector/framework/definitions"
	gohttp "github.com/km-arc/go-injector/framework/http"
	"github.com/km-arc/go-injector/framework/http/validation"
	"github.com/km-arc/go-injector/framework/routing"
)

// Inspector serves the routes of one container.
type Inspector struct {
	c      *container.Container
	key    string
	logger *zap.Logger
}

// New creates an Inspector. key guards the write routes.
func New(c *container.Container, key string, logger *zap.Logger) *Inspector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inspector{c: c, key: key, logger: logger}
}

// Mount registers the routes on r.
func (i *Inspector) Mount(r *routing.Router) {
	r.Get("/services", i.listServices)
	r.Get("/services/{name}", i.showService)
	r.Get("/parameters", i.listParameters)
	r.Get("/parameters/{name}", i.showParameter)

	r.Group(func(w *routing.Router) {
		w.Middleware(i.Authenticate)
		w.Post("/services/{name}/load", i.loadService)
		w.Put("/parameters/{name}", i.putParameter)
		w.Delete("/parameters/{name}", i.deleteParameter)
	})
}

// Authenticate rejects requests without the configured bearer token.
func (i *Inspector) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := gohttp.NewRequest(r)
		res := gohttp.NewResponse(w)

		if i.key == "" {
			res.Unauthorized("Write access is disabled.")
			return
		}
		token := req.BearerToken()
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(i.key)) != 1 {
			res.Unauthorized()
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ── Services ─────────────────────────────────────────────────────────────────

// ServiceView is the JSON form of a registered service.
type ServiceView struct {
	Name      string `json:"name"`
	Class     string `json:"class"`
	Arguments []any  `json:"arguments"`
	Loaded    bool   `json:"loaded"`
	Type      string `json:"type,omitempty"` // Go type of the instance, once loaded
}

func (i *Inspector) view(name string, def container.Definition, loaded map[string]any) ServiceView {
	d := definitions.Describe(def)
	v := ServiceView{Name: name, Class: d.Class, Arguments: d.Arguments}
	if v.Arguments == nil {
		v.Arguments = []any{}
	}
	if instance, ok := loaded[name]; ok {
		v.Loaded = true
		v.Type = fmt.Sprintf("%T", instance)
	}
	return v
}

func (i *Inspector) listServices(w http.ResponseWriter, r *http.Request) {
	req := gohttp.NewRequest(r)
	onlyLoaded := cast.ToBool(req.Query("loaded", "0"))

	defs := i.c.RegisteredServices()
	loaded := i.c.LoadedServices()
	names := make([]string, 0, len(defs))
	for name := range defs {
		if onlyLoaded {
			if _, ok := loaded[name]; !ok {
				continue
			}
		}
		names = append(names, name)
	}
	sort.Strings(names)

	views := make([]ServiceView, 0, len(names))
	for _, name := range names {
		views = append(views, i.view(name, defs[name], loaded))
	}
	gohttp.NewResponse(w).Success(views)
}

func (i *Inspector) showService(w http.ResponseWriter, r *http.Request) {
	name := gohttp.NewRequest(r).RouteParam("name")
	res := gohttp.NewResponse(w)

	def, ok := i.c.RegisteredServices()[name]
	if !ok {
		res.Fail(&container.ServiceNotFoundError{Name: name})
		return
	}
	res.Success(i.view(name, def, i.c.LoadedServices()))
}

func (i *Inspector) loadService(w http.ResponseWriter, r *http.Request) {
	name := gohttp.NewRequest(r).RouteParam("name")
	res := gohttp.NewResponse(w)

	if _, err := i.c.LoadService(name); err != nil {
		i.logger.Warn("inspector load failed", zap.String("service", name), zap.Error(err))
		res.Fail(err)
		return
	}
	i.logger.Info("inspector loaded service", zap.String("service", name))
	res.Success(i.view(name, i.c.RegisteredServices()[name], i.c.LoadedServices()))
}

// ── Parameters ───────────────────────────────────────────────────────────────

func (i *Inspector) listParameters(w http.ResponseWriter, r *http.Request) {
	gohttp.NewResponse(w).Success(i.c.Parameters())
}

func (i *Inspector) showParameter(w http.ResponseWriter, r *http.Request) {
	name := gohttp.NewRequest(r).RouteParam("name")
	res := gohttp.NewResponse(w)

	v, err := i.c.GetParameter(name)
	if err != nil {
		res.Fail(err)
		return
	}
	res.Success(map[string]any{"name": name, "value": v})
}

// ParameterInput is the body of PUT /parameters/{name}. Value is converted
// according to Type: string (default), int, float, bool or json.
type ParameterInput struct {
	Value    string `json:"value"`
	Type     string `json:"type"`
	Override *bool  `json:"override"` // default true
}

var typeRules = map[string]string{
	"int":   "integer",
	"float": "numeric",
	"bool":  "boolean",
	"json":  "json",
}

func (i *Inspector) putParameter(w http.ResponseWriter, r *http.Request) {
	req := gohttp.NewRequest(r)
	res := gohttp.NewResponse(w)
	name := req.RouteParam("name")

	var in ParameterInput
	if err := req.Bind(&in); err != nil {
		res.Error(http.StatusBadRequest, err.Error())
		return
	}

	v := validation.Make(map[string]string{
		"name":  name,
		"type":  in.Type,
		"value": in.Value,
	}, validation.Rules{
		"name":  `required|max:255|regex:^[^%\s]+$`,
		"type":  "nullable|in:string,int,float,bool,json",
		"value": strings.TrimSuffix("required|"+typeRules[in.Type], "|"),
	})
	if v.Fails() {
		res.ValidationError(v.Errors())
		return
	}

	value, err := convert(in.Value, in.Type)
	if err != nil {
		res.Error(http.StatusUnprocessableEntity, err.Error())
		return
	}

	existed := i.c.HasParameter(name)
	var opts []container.SetOption
	if in.Override != nil && !*in.Override {
		opts = append(opts, container.WithoutOverride())
	}
	if err := i.c.SetParameter(name, value, opts...); err != nil {
		res.Fail(err)
		return
	}
	i.logger.Info("inspector set parameter", zap.String("parameter", name))

	body := map[string]any{"name": name, "value": value}
	if existed {
		res.Success(body)
		return
	}
	res.Created(body)
}

func (i *Inspector) deleteParameter(w http.ResponseWriter, r *http.Request) {
	name := gohttp.NewRequest(r).RouteParam("name")
	res := gohttp.NewResponse(w)

	if err := i.c.UnsetParameter(name); err != nil {
		res.Fail(err)
		return
	}
	i.logger.Info("inspector unset parameter", zap.String("parameter", name))
	res.NoContent()
}

// convert turns the validated string form into a typed value.
func convert(value, typ string) (any, error) {
	switch typ {
	case "int":
		return validation.ParseInt(value)
	case "float":
		return cast.ToFloat64E(value)
	case "bool":
		switch strings.ToLower(value) {
		case "true", "1", "yes":
			return true, nil
		default:
			return false, nil
		}
	case "json":
		var v any
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return value, nil
	}
}
