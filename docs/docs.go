// Package docs описание HTTP API в формате Swagger 2.0 для swaggo/gin-swagger.
// Соответствует аннотациям @Router в internal/api/handlers; при изменении
// маршрутов обновляется вместе с ними (swag init -g cmd/server/main.go).
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
    "paths": {
        "/uploadfile": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["grouping"],
                "summary": "Загрузка файла каталога",
                "description": "Извлекает таблицу из CSV, XLSX, PDF или HTML и распределяет элементы по группам",
                "parameters": [
                    {"type": "file", "description": "Файл каталога", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ingestion.Result"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/groups": {
            "get": {
                "produces": ["application/json"],
                "tags": ["grouping"],
                "summary": "Список групп",
                "parameters": [
                    {"type": "integer", "default": 0, "description": "Смещение", "name": "offset", "in": "query"},
                    {"type": "integer", "default": 50, "maximum": 500, "description": "Количество групп", "name": "limit", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Элементов на группу (-1 - все)", "name": "item_limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/grouping.GroupPageDTO"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/groups/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["grouping"],
                "summary": "Группа со всеми элементами",
                "parameters": [
                    {"type": "integer", "description": "ID группы", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/grouping.GroupDTO"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/items/{system_id}/move": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["grouping"],
                "summary": "Перенос элемента в другую группу",
                "description": "group_id = -1 создает новую группу. В ответе - подозрительные элементы исходной группы",
                "parameters": [
                    {"type": "string", "description": "Системный ID элемента", "name": "system_id", "in": "path", "required": true},
                    {"description": "Группа назначения и ключевые слова", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/grouping.MoveRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/grouping.MoveOutcome"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/dump": {
            "post": {
                "produces": ["application/json"],
                "tags": ["grouping"],
                "summary": "Запись снимка групп",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/grouping.DumpResult"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Проверка здоровья",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/system.HealthResponse"}}
                }
            }
        },
        "/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Статистика сервиса",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}}
                }
            }
        }
    },
    "definitions": {
        "middleware.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "timestamp": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "ingestion.Result": {
            "type": "object",
            "properties": {
                "file_name": {"type": "string"},
                "signature": {"type": "string"},
                "items": {"type": "integer"},
                "batch": {"type": "object"},
                "received_at": {"type": "string"}
            }
        },
        "grouping.ItemDTO": {
            "type": "object",
            "properties": {
                "system_id": {"type": "string"},
                "original_id": {"type": "string"},
                "origin_file": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "grouping.GroupDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "size": {"type": "integer"},
                "key_words": {"type": "array", "items": {"type": "string"}},
                "items": {"type": "array", "items": {"$ref": "#/definitions/grouping.ItemDTO"}}
            }
        },
        "grouping.GroupPageDTO": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "offset": {"type": "integer"},
                "limit": {"type": "integer"},
                "groups": {"type": "array", "items": {"$ref": "#/definitions/grouping.GroupDTO"}}
            }
        },
        "grouping.MoveRequest": {
            "type": "object",
            "required": ["group_id"],
            "properties": {
                "group_id": {"type": "integer"},
                "keywords": {"type": "array", "items": {"type": "string"}}
            }
        },
        "grouping.SuspiciousItem": {
            "type": "object",
            "properties": {
                "system_id": {"type": "string"},
                "similarity_score": {"type": "number"},
                "description": {"type": "string"}
            }
        },
        "grouping.MoveOutcome": {
            "type": "object",
            "properties": {
                "previous_group_id": {"type": "integer"},
                "group_id": {"type": "integer"},
                "suspicious_items": {"type": "array", "items": {"$ref": "#/definitions/grouping.SuspiciousItem"}}
            }
        },
        "grouping.DumpResult": {
            "type": "object",
            "properties": {
                "reason": {"type": "string"},
                "groups": {"type": "integer"},
                "items": {"type": "integer"},
                "written_at": {"type": "string", "format": "date-time"}
            }
        },
        "system.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "version": {"type": "string"},
                "groups": {"type": "integer"},
                "uptime_seconds": {"type": "number"}
            }
        }
    }
}`

// SwaggerInfo метаданные API, изменяемые при регистрации маршрутов
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Catalog Grouping API",
	Description:      "Группировка записей каталогов товаров: загрузка файлов, просмотр групп, ручной перенос элементов.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
