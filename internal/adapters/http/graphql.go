package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/benchpoint/benchpoint/internal/core/domain"
)

func markerToMap(m *domain.Marker) map[string]interface{} {
	out := map[string]interface{}{
		"id":          m.ID,
		"user_id":     m.UserID,
		"username":    m.Username,
		"title":       m.Title,
		"description": m.Description,
		"location": map[string]interface{}{
			"lat": m.Location.Lat(),
			"lng": m.Location.Lng(),
		},
		"created_at": m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if m.ImageURL != nil {
		out["image_url"] = *m.ImageURL
	}
	if m.Distance != nil {
		out["distance_m"] = *m.Distance
	}
	return out
}

// buildSchema creates the GraphQL schema wired to our services.
// The GraphQL surface is read-only; mutations go through REST.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	markerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Marker",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"user_id":     &graphql.Field{Type: graphql.Int},
			"username":    &graphql.Field{Type: graphql.String},
			"title":       &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"location":    &graphql.Field{Type: geoPointType},
			"image_url":   &graphql.Field{Type: graphql.String},
			"distance_m":  &graphql.Field{Type: graphql.Float},
			"created_at":  &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"marker": &graphql.Field{
				Type:        markerType,
				Description: "Get a marker by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := int64(p.Args["id"].(int))
					m, err := deps.Markers.ByID(p.Context, id)
					if err != nil {
						return nil, err
					}
					return markerToMap(m), nil
				},
			},
			"markersNearby": &graphql.Field{
				Type:        graphql.NewList(markerType),
				Description: "Find markers near a location, nearest first",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lng": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"r":   &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 5000.0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lng := p.Args["lng"].(float64)
					radius := p.Args["r"].(float64)
					markers, err := deps.Markers.Nearby(p.Context, lat, lng, radius)
					if err != nil {
						return nil, err
					}
					result := make([]map[string]interface{}, 0, len(markers))
					for i := range markers {
						result = append(result, markerToMap(&markers[i]))
					}
					return result, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
