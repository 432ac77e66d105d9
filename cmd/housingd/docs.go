package main

// General API documentation for swaggo. Run `make swagger-gen` to generate docs.
//
// @title           housingd API
// @version         1.0
// @description     HTTP API serving a random-forest model of California median house values.
//
// @contact.name   housingd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
