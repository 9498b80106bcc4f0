package catalog

// 内置示例点位：未配置外部数据源时使用
var defaultPoints = []RecyclingPoint{
	{
		ID:            1,
		Name:          "Punto Limpio San Ramón",
		Address:       "Av. Concha y Toro 5720",
		Comuna:        SanRamon,
		Coords:        Coords{Lat: -33.5345, Lng: -70.6206},
		Materials:     []Material{Plastic, Paper, Glass},
		Schedule:      "Lunes a Viernes 9:00-18:00",
		DistanceLabel: "1.2 km",
	},
	{
		ID:            2,
		Name:          "Centro de Reciclaje Municipal",
		Address:       "Av. Santa Rosa 8950",
		Comuna:        SanRamon,
		Coords:        Coords{Lat: -33.5412, Lng: -70.6398},
		Materials:     []Material{Plastic, Metal, Electronic},
		Schedule:      "Lunes a Sábado 10:00-17:00",
		DistanceLabel: "2.1 km",
	},
	{
		ID:            3,
		Name:          "Ecopunto La Granja",
		Address:       "Av. Américo Vespucio 0850",
		Comuna:        LaGranja,
		Coords:        Coords{Lat: -33.5298, Lng: -70.6189},
		Materials:     []Material{Paper, Glass, Metal},
		Schedule:      "Martes a Domingo 8:30-19:00",
		DistanceLabel: "0.8 km",
	},
	{
		ID:            4,
		Name:          "Reciclaje La Cisterna",
		Address:       "Gran Avenida José Miguel Carrera 8500",
		Comuna:        LaCisterna,
		Coords:        Coords{Lat: -33.5305, Lng: -70.6640},
		Materials:     []Material{Plastic, Paper, Metal},
		Schedule:      "Lunes a Viernes 8:00-20:00",
		DistanceLabel: "3.5 km",
	},
}

// Default：内置目录；数据为编译期常量，校验不会失败
func Default() *Catalog {
	c, err := New(defaultPoints)
	if err != nil {
		panic(err)
	}
	return c
}
