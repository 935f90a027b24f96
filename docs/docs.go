// Package docs registra la especificación OpenAPI servida en /swagger/*.
// Regenerar con: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/health": {"get": {"tags": ["health"], "summary": "Health check", "responses": {"200": {"description": "ok"}}}},
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Registrar cuenta", "responses": {"201": {"description": "Created"}, "400": {"description": "invalid_input / weak_credential"}, "409": {"description": "duplicate_account"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Iniciar sesión", "responses": {"200": {"description": "OK"}, "401": {"description": "bad_credential"}, "404": {"description": "not_found"}, "429": {"description": "rate_limited"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Cerrar sesión", "responses": {"204": {"description": "No Content"}}}},
        "/auth/password": {"post": {"tags": ["auth"], "summary": "Cambiar contraseña", "responses": {"204": {"description": "No Content"}}}},
        "/me/profile": {
            "get": {"tags": ["profiles"], "summary": "Obtener perfil", "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["profiles"], "summary": "Actualizar perfil", "responses": {"200": {"description": "OK"}}}
        },
        "/me/notifications": {"put": {"tags": ["profiles"], "summary": "Preferencias de notificación", "responses": {"200": {"description": "OK"}}}},
        "/me/language": {"put": {"tags": ["profiles"], "summary": "Idioma", "responses": {"200": {"description": "OK"}}}},
        "/pets": {
            "get": {"tags": ["pets"], "summary": "Listar mascotas", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["pets"], "summary": "Registrar mascota", "responses": {"201": {"description": "Created"}}}
        },
        "/pets/{petID}": {
            "get": {"tags": ["pets"], "summary": "Ver mascota", "responses": {"200": {"description": "OK"}}},
            "patch": {"tags": ["pets"], "summary": "Editar mascota", "responses": {"200": {"description": "OK"}}}
        },
        "/pets/{petID}/archive": {"post": {"tags": ["pets"], "summary": "Archivar mascota", "responses": {"200": {"description": "OK"}}}},
        "/pets/{petID}/restore": {"post": {"tags": ["pets"], "summary": "Restaurar mascota", "responses": {"200": {"description": "OK"}}}},
        "/pets/{petID}/image": {
            "post": {"tags": ["pets"], "summary": "Subir imagen de mascota", "responses": {"200": {"description": "OK"}, "502": {"description": "upload_failure"}}},
            "delete": {"tags": ["pets"], "summary": "Quitar imagen de mascota", "responses": {"200": {"description": "OK"}, "502": {"description": "upload_failure"}}}
        },
        "/pets/{petID}/records/{category}": {
            "get": {"tags": ["records"], "summary": "Listar registros", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["records"], "summary": "Crear registro", "responses": {"201": {"description": "Created"}}}
        },
        "/pets/{petID}/records/{category}/stats": {"get": {"tags": ["records"], "summary": "Estadísticas", "responses": {"200": {"description": "OK"}}}},
        "/pets/{petID}/records/{category}/{recordID}": {
            "patch": {"tags": ["records"], "summary": "Editar registro", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["records"], "summary": "Eliminar registro", "responses": {"204": {"description": "No Content"}}}
        },
        "/catalog/vaccines": {"get": {"tags": ["records"], "summary": "Catálogo de vacunas", "responses": {"200": {"description": "OK"}}}},
        "/images": {"post": {"tags": ["images"], "summary": "Subir imagen", "responses": {"201": {"description": "Created"}}}},
        "/memorials": {
            "get": {"tags": ["memorials"], "summary": "Posts públicos", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["memorials"], "summary": "Compartir memorial", "responses": {"201": {"description": "Created"}}}
        },
        "/memorials/{postID}": {"delete": {"tags": ["memorials"], "summary": "Eliminar post", "responses": {"204": {"description": "No Content"}, "403": {"description": "permission_denied"}}}},
        "/memorials/{postID}/like": {"post": {"tags": ["memorials"], "summary": "Like / unlike", "responses": {"200": {"description": "OK"}}}},
        "/memorials/{postID}/comments": {"post": {"tags": ["memorials"], "summary": "Comentar", "responses": {"201": {"description": "Created"}}}},
        "/me/memorials": {"get": {"tags": ["memorials"], "summary": "Mis posts", "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Huellitas API",
	Description:      "Mascotas, cartilla sanitaria y memoriales.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
