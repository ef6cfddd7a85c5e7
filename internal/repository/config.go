package repository

type Config struct {
	Driver string `yaml:"driver" validate:"oneof=sqlite postgres mysql memory"`
	Dsn    string `yaml:"dsn" validate:"required_unless=Driver memory"`
}
