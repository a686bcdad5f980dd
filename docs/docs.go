// Package docs Swagger文档,由swag根据handler上的注释生成
// 重新生成: swag init -g cmd/api/main.go -o docs
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
        "/api/v1/users/register": {"post": {"tags": ["用户"], "summary": "用户注册", "responses": {"200": {"description": "注册成功"}}}},
        "/api/v1/users/login": {"post": {"tags": ["用户"], "summary": "用户登录", "responses": {"200": {"description": "登录成功"}}}},
        "/api/v1/users/refresh": {"post": {"tags": ["用户"], "summary": "刷新Token", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/users/logout": {"post": {"security": [{"BearerAuth": []}], "tags": ["用户"], "summary": "退出登录", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/users/me": {"get": {"security": [{"BearerAuth": []}], "tags": ["用户"], "summary": "当前用户", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/books": {
            "get": {"tags": ["图书"], "summary": "图书列表", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["图书"], "summary": "图书上架", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/books/{id}": {
            "get": {"tags": ["图书"], "summary": "图书详情", "responses": {"200": {"description": "OK"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["图书"], "summary": "删除图书", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/borrowings": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["借阅"], "summary": "借阅列表", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["借阅"], "summary": "借书", "responses": {"303": {"description": "跳转到支付页面"}}}
        },
        "/api/v1/borrowings/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["借阅"], "summary": "借阅详情", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/borrowings/{id}/return": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["借阅"], "summary": "还书预览", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["借阅"], "summary": "还书", "responses": {"200": {"description": "按时归还"}, "303": {"description": "跳转到罚款支付页面"}}}
        },
        "/api/v1/payments": {"get": {"security": [{"BearerAuth": []}], "tags": ["支付"], "summary": "支付列表", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/payments/{id}": {"get": {"security": [{"BearerAuth": []}], "tags": ["支付"], "summary": "支付详情", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/payments/success": {"get": {"tags": ["支付"], "summary": "支付成功回跳", "responses": {"200": {"description": "OK"}}}},
        "/api/v1/payments/cancel": {"get": {"tags": ["支付"], "summary": "支付取消回跳", "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "图书租借服务 API",
	Description:      "借阅、支付、逾期罚款",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
